package lawid

// fallbackLaws covers the statutes that dominate cross-references in
// practice. A YAML catalogue extends or overrides this table at load time.
var fallbackLaws = []LawInfo{
	{ID: "129AC0000000089", Title: "民法", MaxArticle: 1050},
	{ID: "140AC0000000045", Title: "刑法", MaxArticle: 264},
	{ID: "132AC0000000048", Title: "商法", MaxArticle: 851},
	{ID: "417AC0000000086", Title: "会社法", MaxArticle: 979},
	{ID: "408AC0000000109", Title: "民事訴訟法", Aliases: []string{"民訴法"}, MaxArticle: 405},
	{ID: "323AC0000000131", Title: "刑事訴訟法", Aliases: []string{"刑訴法"}, MaxArticle: 507},
	{ID: "322AC0000000049", Title: "労働基準法", Aliases: []string{"労基法"}, MaxArticle: 121},
	{ID: "321CONSTITUTION", Title: "日本国憲法", Aliases: []string{"憲法"}, MaxArticle: 103},
	{ID: "405AC0000000088", Title: "行政手続法", MaxArticle: 46},
	{ID: "411AC0000000127", Title: "地方分権の推進を図るための関係法律の整備等に関する法律", MaxArticle: 475},
	{ID: "414AC0000000057", Title: "個人情報の保護に関する法律", Aliases: []string{"個人情報保護法"}, MaxArticle: 185},
	{ID: "420AC0000000042", Title: "金融商品取引法", Aliases: []string{"金商法"}, MaxArticle: 228},
	{ID: "322AC0000000067", Title: "国家公務員法", MaxArticle: 111},
	{ID: "325AC0000000201", Title: "地方税法", MaxArticle: 804},
	{ID: "322AC0000000026", Title: "学校教育法", MaxArticle: 146},
}

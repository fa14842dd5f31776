package pattern

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/kasumigaseki/refmap/pkg/ref"
)

// Building blocks shared by the rule patterns. Texts are width-folded
// before matching, so ASCII digits and parentheses are the canonical forms.
// Branch numbers attach after 条 in drafting (第三十二条の二 is article
// 32-2), so the article fragments capture the numeral and the branch tail
// separately; defaultBuild joins them back into 三十二の二.
const (
	numCls   = `[0-9一二三四五六七八九十百千]`
	num      = numCls + `+`
	branch   = `(?:の` + num + `)+`
	nameCls  = `[\p{Han}\p{Hiragana}\p{Katakana}ー々]`
	irohaCls = `[イロハニホヘトチリヌルヲワカヨタレソツネナラムウヰノオクヤマケフコエテアサキユメミシヱヒモセス]`
	eraNames = `(?:明治|大正|昭和|平成|令和)`
	lawTypes = `(?:法律|政令|勅令|太政官布告|内閣府令|省令|規則)`

	artRef  = `第(?P<article>` + num + `)条(?P<branch>` + branch + `)?`
	artRef2 = `第(?P<article2>` + num + `)条(?P<branch2>` + branch + `)?`
	paraRef = `第(?P<paragraph>` + num + `)項`
	itemRef = `第(?P<item>` + num + `)号`
)

var listArticleRe = regexp.MustCompile(`第(` + num + `)条((?:の` + num + `)+)?`)

// builtinRules returns the ordered built-in rule table. The table is
// append-only: overlay rules from the registry are added after it and
// never reorder it.
func builtinRules() []*Rule {
	return []*Rule{
		// --- structural -------------------------------------------------
		{
			Name:           "structural-unit",
			Category:       CategoryStructural,
			Type:           ref.TypeStructural,
			Pattern:        `第(?P<number>` + num + `)(?P<unit>[編章節款目])`,
			BaseConfidence: ref.ConfidenceStructural,
		},

		// --- basic ------------------------------------------------------
		{
			Name:     "law-number-article",
			Category: CategoryBasic,
			Type:     ref.TypeExternal,
			Pattern: `(?P<law>` + nameCls + `{1,30}(?:法律|法|令|条例))\((?P<lawnum>` + eraNames + `(?:` + num + `|元)年` + lawTypes + `第` + num + `号)(?:。[^)]*)?\)` +
				`(?:` + artRef + `)?(?:` + paraRef + `)?(?:` + itemRef + `)?`,
			BaseConfidence: ref.ConfidenceDictionary,
			Build:          buildLawName,
		},
		{
			Name:     "law-name-article",
			Category: CategoryBasic,
			Type:     ref.TypeExternal,
			Pattern: `(?P<law>` + nameCls + `{1,30}(?:法律|法))` +
				artRef + `(?:` + paraRef + `)?(?:` + itemRef + `)?`,
			BaseConfidence: ref.ConfidenceBasic,
			Build:          buildLawName,
		},
		{
			Name:           "bare-article",
			Category:       CategoryBasic,
			Type:           ref.TypeInternal,
			Pattern:        artRef + `(?:` + paraRef + `)?(?:` + itemRef + `)?`,
			BaseConfidence: ref.ConfidenceBasic,
		},
		{
			Name:           "bare-paragraph",
			Category:       CategoryBasic,
			Type:           ref.TypeInternal,
			Pattern:        paraRef + `(?:` + itemRef + `)?`,
			BaseConfidence: ref.ConfidenceCompound,
		},
		{
			Name:           "bare-item",
			Category:       CategoryBasic,
			Type:           ref.TypeInternal,
			Pattern:        itemRef,
			BaseConfidence: ref.ConfidenceCompound,
		},

		// --- implicit (relative) ---------------------------------------
		// The relative resolver re-parses the matched text itself, so these
		// rules carry no capture groups.
		{
			Name:           "rel-article",
			Category:       CategoryImplicit,
			Type:           ref.TypeRelative,
			Pattern:        `前々条|次々条|前条|次条`,
			BaseConfidence: ref.ConfidenceCompound,
		},
		{
			Name:           "rel-article-n",
			Category:       CategoryImplicit,
			Type:           ref.TypeRelative,
			Pattern:        `[前次]` + num + `条`,
			BaseConfidence: ref.ConfidenceCompound,
		},
		{
			Name:           "rel-paragraph",
			Category:       CategoryImplicit,
			Type:           ref.TypeRelative,
			Pattern:        `前々項|次々項|前項|次項`,
			BaseConfidence: ref.ConfidenceCompound,
		},
		{
			Name:           "rel-paragraph-n",
			Category:       CategoryImplicit,
			Type:           ref.TypeRelative,
			Pattern:        `[前次]` + num + `項`,
			BaseConfidence: ref.ConfidenceCompound,
		},
		{
			Name:           "rel-item",
			Category:       CategoryImplicit,
			Type:           ref.TypeRelative,
			Pattern:        `前号|次号`,
			BaseConfidence: ref.ConfidenceCompound,
		},
		{
			Name:           "rel-each",
			Category:       CategoryImplicit,
			Type:           ref.TypeRelative,
			Pattern:        `前各項|前各号|各項|各号`,
			BaseConfidence: ref.ConfidenceCompound,
		},
		{
			Name:           "rel-same",
			Category:       CategoryImplicit,
			Type:           ref.TypeRelative,
			Pattern:        `同条|本条|同項|本項|同号`,
			BaseConfidence: ref.ConfidenceCompound,
		},

		// --- compound ---------------------------------------------------
		{
			Name:           "compound-article-paragraph",
			Category:       CategoryCompound,
			Type:           ref.TypeRelative,
			Pattern:        `(?:前々条|次々条|前条|次条|同条|本条)第` + num + `項(?:第` + num + `号)?`,
			BaseConfidence: ref.ConfidenceBasic,
		},
		{
			Name:           "compound-paragraph-item",
			Category:       CategoryCompound,
			Type:           ref.TypeRelative,
			Pattern:        `(?:前項|次項|同項|本項)第` + num + `号`,
			BaseConfidence: ref.ConfidenceBasic,
		},
		{
			Name:           "conditional-case",
			Category:       CategoryCompound,
			Type:           ref.TypeConditional,
			Pattern:        artRef + `(?:` + paraRef + `)?に(?:定める|規定する)場合`,
			BaseConfidence: ref.ConfidenceCompound,
		},

		// --- range ------------------------------------------------------
		{
			Name:           "article-range",
			Category:       CategoryRange,
			Type:           ref.TypeRange,
			Pattern:        artRef + `から` + artRef2 + `まで`,
			BaseConfidence: ref.ConfidenceContextual,
		},
		{
			Name:           "paragraph-range",
			Category:       CategoryRange,
			Type:           ref.TypeRange,
			Pattern:        paraRef + `から第(?P<paragraph2>` + num + `)項まで`,
			BaseConfidence: ref.ConfidenceContextual,
		},
		{
			Name:           "item-range",
			Category:       CategoryRange,
			Type:           ref.TypeRange,
			Pattern:        itemRef + `から第(?P<item2>` + num + `)号まで`,
			BaseConfidence: ref.ConfidenceContextual,
		},
		{
			Name:           "iroha-item-range",
			Category:       CategoryRange,
			Type:           ref.TypeRange,
			Pattern:        `(?P<item>` + irohaCls + `)から(?P<item2>` + irohaCls + `)まで`,
			BaseConfidence: ref.ConfidenceCompound,
		},

		// --- application ------------------------------------------------
		{
			Name:     "junyo",
			Category: CategoryApplication,
			Type:     ref.TypeApplication,
			Pattern: artRef + `(?:` + paraRef + `)?の規定` +
				`(?:を準用する|は、[^。]{0,80}?準用する)`,
			BaseConfidence: ref.ConfidenceRelativeHigh,
			Build:          buildApplication("junyo"),
		},
		{
			Name:           "yomikae",
			Category:       CategoryApplication,
			Type:           ref.TypeApplication,
			Pattern:        artRef + `(?:` + paraRef + `)?[^。]{0,60}?読み替える`,
			BaseConfidence: ref.ConfidenceCompound,
			Build:          buildApplication("yomikae"),
		},

		// --- multi-target -----------------------------------------------
		{
			Name:     "multi-article",
			Category: CategoryMultiTarget,
			Type:     ref.TypeInternal,
			Pattern: `第` + num + `条(?:` + branch + `)?(?:、第` + num + `条(?:` + branch + `)?)*` +
				`(?:及び|並びに|又は|若しくは)第` + num + `条(?:` + branch + `)?`,
			BaseConfidence: ref.ConfidenceBasic,
			Build:          buildMultiArticle,
		},

		// --- contextual -------------------------------------------------
		{
			Name:           "ctx-same-law",
			Category:       CategoryContextual,
			Type:           ref.TypeContextual,
			Pattern:        `(?P<alias>同法|当該法律|当該法)(?:` + artRef + `(?:` + paraRef + `)?)?`,
			BaseConfidence: ref.ConfidenceCompound,
		},
		{
			Name:           "defined-alias",
			Category:       CategoryContextual,
			Type:           ref.TypeDefined,
			Pattern:        `(?P<alias>新法|旧法|新令|旧令)` + artRef + `(?:` + paraRef + `)?`,
			BaseConfidence: ref.ConfidenceCompound,
		},
		{
			Name:           "quoted-law",
			Category:       CategoryContextual,
			Type:           ref.TypeContextual,
			Pattern:        `「(?P<alias>[^」]{1,25}(?:法律|法))」(?:` + artRef + `(?:` + paraRef + `)?)?`,
			BaseConfidence: ref.ConfidenceAmbiguous,
		},
		{
			Name:           "related-laws",
			Category:       CategoryContextual,
			Type:           ref.TypeContextual,
			Pattern:        `関係法令`,
			BaseConfidence: ref.ConfidenceLLMFloor,
		},
	}
}

// aliasStopList holds captures of the law-name rules that belong to other
// rules (contextual and defined aliases) or are too generic to be names.
var aliasStopList = map[string]bool{
	"法": true, "法律": true, "同法": true, "当該法": true,
	"新法": true, "旧法": true, "この法律": true,
}

// descriptiveSuffixes mark name fragments that are usually prose, not a
// statute name ("…を定める法", "…による法"). Such captures survive only if
// the dictionary confirms the exact fragment.
var descriptiveSuffixes = []string{"する法", "による法", "に関する法", "の法"}

const maxLawNameRunes = 25

// buildLawName post-processes the law-name rules: it trims prose particles
// off the front of the captured name and flags implausible names.
func buildLawName(r *Rule, text string, m []int) []Candidate {
	cands := defaultBuild(r, text, m)
	if len(cands) == 0 {
		return nil
	}
	c := &cands[0]

	name := c.Capture.LawName
	trimmed := strings.TrimLeftFunc(name, func(ru rune) bool {
		return unicode.In(ru, unicode.Hiragana)
	})
	if trimmed == "" || aliasStopList[trimmed] {
		return nil
	}
	if cut := len(name) - len(trimmed); cut > 0 {
		// A law name never begins with hiragana; the regex swallowed the
		// particle before the name. Re-anchor the candidate.
		c.Span.Start += cut
		c.Text = c.Text[cut:]
		c.Capture.LawName = trimmed
		name = trimmed
	}

	runes := []rune(name)
	if len(runes) > maxLawNameRunes {
		c.Capture.Suspicious = true
	}
	for _, suffix := range descriptiveSuffixes {
		if strings.HasSuffix(name, suffix) {
			c.Capture.Suspicious = true
			break
		}
	}

	return cands
}

// buildApplication tags 準用/読替え matches with their kind.
func buildApplication(kind string) BuildFunc {
	return func(r *Rule, text string, m []int) []Candidate {
		cands := defaultBuild(r, text, m)
		for i := range cands {
			cands[i].Capture.ApplicationKind = kind
		}
		return cands
	}
}

// buildMultiArticle collects every article numeral in a conjunctive list.
func buildMultiArticle(r *Rule, text string, m []int) []Candidate {
	cands := defaultBuild(r, text, m)
	if len(cands) == 0 {
		return nil
	}
	c := &cands[0]

	for _, sub := range listArticleRe.FindAllStringSubmatch(c.Text, -1) {
		c.Capture.Articles = append(c.Capture.Articles, sub[1]+sub[2])
	}
	if len(c.Capture.Articles) < 2 {
		return nil
	}
	c.Capture.Article = c.Capture.Articles[0]
	return cands
}

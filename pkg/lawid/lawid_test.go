package lawid

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseLawNumber(t *testing.T) {
	tests := []struct {
		number string
		want   string
	}{
		{"明治二十九年法律第八十九号", "129AC0000000089"},
		{"明治29年法律第89号", "129AC0000000089"},
		{"平成十七年法律第八十六号", "417AC0000000086"},
		{"令和元年法律第三十七号", "501AC0000000037"},
		{"昭和二十二年政令第十六号", "322CO0000000016"},
		{"明治三十三年勅令第五十一号", "133IO0000000051"},
	}
	for _, tt := range tests {
		got, err := ParseLawNumber(tt.number)
		if err != nil {
			t.Errorf("ParseLawNumber(%q) error: %v", tt.number, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLawNumber(%q) = %q, want %q", tt.number, got, tt.want)
		}
	}
}

func TestParseLawNumberRejects(t *testing.T) {
	for _, number := range []string{"", "民法", "第八十九号", "慶応三年法律第一号"} {
		if _, err := ParseLawNumber(number); err == nil {
			t.Errorf("ParseLawNumber(%q) succeeded, want error", number)
		}
	}
}

func TestCatalogueLookups(t *testing.T) {
	c := NewCatalogue()

	id, ok := c.FindLawIDByName("民法")
	if !ok || id != "129AC0000000089" {
		t.Fatalf("FindLawIDByName(民法) = %q, %v", id, ok)
	}

	if id, ok := c.FindLawIDByName("労基法"); !ok || id != "322AC0000000049" {
		t.Errorf("alias lookup = %q, %v", id, ok)
	}

	if _, ok := c.FindLawIDByName("存在しない法"); ok {
		t.Error("unknown name resolved")
	}

	id, ok = c.FindLawIDByNumber("明治二十九年法律第八十九号")
	if !ok || id != "129AC0000000089" {
		t.Errorf("FindLawIDByNumber = %q, %v", id, ok)
	}
}

func TestValidateArticleNumber(t *testing.T) {
	c := NewCatalogue()

	tests := []struct {
		lawID string
		n     int
		want  bool
	}{
		{"129AC0000000089", 90, true},
		{"129AC0000000089", 1050, true},
		{"129AC0000000089", 1051, false},
		{"129AC0000000089", 0, false},
		{"unknown-law", 500, true},
		{"unknown-law", 1001, false},
	}
	for _, tt := range tests {
		if got := c.ValidateArticleNumber(tt.lawID, tt.n); got != tt.want {
			t.Errorf("ValidateArticleNumber(%q, %d) = %v, want %v", tt.lawID, tt.n, got, tt.want)
		}
	}
}

func TestLoadCatalogue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "laws.yaml")
	data := `laws:
  - id: "129AC0000000089"
    title: 民法
    max_article: 999
  - id: "501AC0000000037"
    title: 情報通信技術の活用による行政手続等に係る関係者の利便性の向上並びに行政運営の簡素化及び効率化を図るための行政手続等における情報通信の技術の利用に関する法律等の一部を改正する法律
    aliases: [デジタル手続法]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCatalogue(path)
	if err != nil {
		t.Fatalf("LoadCatalogue: %v", err)
	}

	// The loaded entry overrides the fallback metadata.
	if c.ValidateArticleNumber("129AC0000000089", 1000) {
		t.Error("override max_article not applied")
	}
	if id, ok := c.FindLawIDByName("デジタル手続法"); !ok || id != "501AC0000000037" {
		t.Errorf("loaded alias = %q, %v", id, ok)
	}
	// Fallback entries not overridden remain available.
	if _, ok := c.FindLawIDByName("刑法"); !ok {
		t.Error("fallback entry lost after load")
	}
}

func TestLoadCatalogueRejectsIncomplete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("laws:\n  - title: 無名\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCatalogue(path); err == nil {
		t.Error("catalogue entry without id accepted")
	}
}

func TestFormatID(t *testing.T) {
	if got := FormatID(1, 29, "法律", 89); got != "129AC0000000089" {
		t.Errorf("FormatID = %q", got)
	}
}

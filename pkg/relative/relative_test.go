package relative

import (
	"strings"
	"testing"

	"github.com/kasumigaseki/refmap/pkg/tracker"
)

const minpo = "129AC0000000089"

func ctxAt(article float64, paragraph int) *tracker.Context {
	c := tracker.New(minpo, article)
	c.Paragraph = paragraph
	return c
}

func TestResolvePreviousArticle(t *testing.T) {
	r := Resolve("前条", ctxAt(90, 1))
	if r.Err != "" {
		t.Fatalf("unexpected error: %s", r.Err)
	}
	if r.Article != 89 {
		t.Errorf("Article = %v, want 89", r.Article)
	}
	if r.ArticleDisplay != "八十九" {
		t.Errorf("ArticleDisplay = %q", r.ArticleDisplay)
	}
	if r.Confidence <= 0.9 {
		t.Errorf("Confidence = %v, want > 0.9", r.Confidence)
	}
	if r.LawID != minpo {
		t.Errorf("LawID = %q", r.LawID)
	}
}

func TestResolveClampAtFirstArticle(t *testing.T) {
	r := Resolve("前条", ctxAt(1, 1))
	if r.Err == "" {
		t.Fatal("expected an error at article 1")
	}
	if !strings.Contains(r.Err, "前条") {
		t.Errorf("Err = %q, want mention of 前条", r.Err)
	}
	if r.Confidence >= 0.5 {
		t.Errorf("Confidence = %v, want < 0.5", r.Confidence)
	}
}

func TestResolveShifts(t *testing.T) {
	tests := []struct {
		text          string
		article       float64
		paragraph     int
		wantArticle   float64
		wantParagraph int
	}{
		{"次条", 90, 1, 91, 1},
		{"前々条", 90, 1, 88, 1},
		{"次々条", 90, 1, 92, 1},
		{"前項", 90, 3, 90, 2},
		{"次項", 90, 3, 90, 4},
		{"前々項", 90, 3, 90, 1},
		{"同条", 90, 3, 90, 0},
		{"同項", 90, 3, 90, 3},
		{"前二条", 90, 1, 88, 1},
		{"次三条", 90, 1, 93, 1},
		{"前二項", 90, 5, 90, 3},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			r := Resolve(tt.text, ctxAt(tt.article, tt.paragraph))
			if r.Err != "" {
				t.Fatalf("unexpected error: %s", r.Err)
			}
			if r.Article != tt.wantArticle {
				t.Errorf("Article = %v, want %v", r.Article, tt.wantArticle)
			}
			if r.Paragraph != tt.wantParagraph {
				t.Errorf("Paragraph = %d, want %d", r.Paragraph, tt.wantParagraph)
			}
		})
	}
}

func TestResolveCompound(t *testing.T) {
	r := Resolve("前条第二項", ctxAt(90, 1))
	if r.Err != "" {
		t.Fatalf("unexpected error: %s", r.Err)
	}
	if r.Article != 89 || r.Paragraph != 2 {
		t.Errorf("resolved %v/%d, want 89/2", r.Article, r.Paragraph)
	}

	r = Resolve("前項第三号", ctxAt(90, 2))
	if r.Err != "" {
		t.Fatalf("unexpected error: %s", r.Err)
	}
	if r.Paragraph != 1 || r.Item != "三" {
		t.Errorf("resolved paragraph %d item %q", r.Paragraph, r.Item)
	}

	r = Resolve("同条第三項第一号", ctxAt(90, 1))
	if r.Article != 90 || r.Paragraph != 3 || r.Item != "一" {
		t.Errorf("resolved %v/%d/%q", r.Article, r.Paragraph, r.Item)
	}
}

func TestResolveClampAtFirstParagraph(t *testing.T) {
	r := Resolve("前項", ctxAt(90, 1))
	if r.Err == "" || r.Confidence >= 0.5 {
		t.Errorf("expected low-confidence failure, got %+v", r)
	}
}

func TestResolveBranchArticle(t *testing.T) {
	// 前条 of 第3条の2 is 第3条.
	r := Resolve("前条", ctxAt(3.02, 1))
	if r.Err != "" {
		t.Fatalf("unexpected error: %s", r.Err)
	}
	if r.Article != 3 {
		t.Errorf("Article = %v, want 3", r.Article)
	}
}

func TestResolveItems(t *testing.T) {
	c := ctxAt(90, 2)
	c.Item = "三"
	r := Resolve("前号", c)
	if r.Err != "" || r.Item != "二" {
		t.Errorf("前号 = %+v", r)
	}

	c.Item = "ロ"
	r = Resolve("次号", c)
	if r.Err != "" || r.Item != "ハ" {
		t.Errorf("次号 from ロ = %+v", r)
	}

	c.Item = "一"
	r = Resolve("前号", c)
	if r.Err == "" {
		t.Error("前号 at item 1 should fail")
	}

	c.Item = ""
	r = Resolve("前号", c)
	if r.Err == "" {
		t.Error("前号 without a current item should fail")
	}
}

func TestResolveEach(t *testing.T) {
	r := Resolve("前各項", ctxAt(90, 4))
	if r.Err != "" {
		t.Fatalf("unexpected error: %s", r.Err)
	}
	if r.Paragraph != 3 {
		t.Errorf("Paragraph = %d, want the preceding paragraph 3", r.Paragraph)
	}
	if !strings.Contains(r.Note, "第3項") {
		t.Errorf("Note = %q", r.Note)
	}

	if r := Resolve("前各項", ctxAt(90, 1)); r.Err == "" {
		t.Error("前各項 at paragraph 1 should fail")
	}
}

func TestResolveEachItem(t *testing.T) {
	ctx := ctxAt(90, 2)
	ctx.Item = "三"
	r := Resolve("前各号", ctx)
	if r.Err != "" {
		t.Fatalf("unexpected error: %s", r.Err)
	}
	if r.Item != "二" {
		t.Errorf("Item = %q, want the preceding item 二", r.Item)
	}
	if !strings.Contains(r.Note, "第二号") {
		t.Errorf("Note = %q", r.Note)
	}

	ctx.Item = "ハ"
	r = Resolve("前各号", ctx)
	if r.Err != "" {
		t.Fatalf("unexpected error: %s", r.Err)
	}
	if r.Item != "ロ" {
		t.Errorf("Item = %q, want ロ", r.Item)
	}
	if !strings.Contains(r.Note, "ロ") {
		t.Errorf("Note = %q", r.Note)
	}

	// No current item: fall back to the enumeration as a whole.
	ctx.Item = ""
	r = Resolve("前各号", ctx)
	if r.Err != "" || r.Item != "" || r.Note == "" {
		t.Errorf("Resolve(前各号) without item = %+v", r)
	}
}

func TestResolveMultiArticleNote(t *testing.T) {
	r := Resolve("前三条", ctxAt(10, 1))
	if r.Err != "" {
		t.Fatalf("unexpected error: %s", r.Err)
	}
	if r.Article != 7 {
		t.Errorf("Article = %v, want 7", r.Article)
	}
	if !strings.Contains(r.Note, "第九条") {
		t.Errorf("Note = %q, want span up to 第九条", r.Note)
	}
}

func TestResolveUnknown(t *testing.T) {
	r := Resolve("ほにゃらら", ctxAt(10, 1))
	if r.Err == "" || r.Confidence >= 0.5 {
		t.Errorf("unknown form accepted: %+v", r)
	}
}

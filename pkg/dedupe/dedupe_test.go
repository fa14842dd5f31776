package dedupe

import (
	"testing"

	"github.com/kasumigaseki/refmap/pkg/ref"
)

func span(start, end int) ref.Span { return ref.Span{Start: start, End: end} }

func TestDedupeKeepsLongerMatch(t *testing.T) {
	refs := []ref.Reference{
		{Text: "第九十条", Span: span(0, 12), Confidence: 0.85},
		{Text: "第九十条第二項", Span: span(0, 21), Confidence: 0.85},
	}

	out := Dedupe(refs)
	if len(out) != 1 {
		t.Fatalf("got %d references, want 1", len(out))
	}
	if out[0].Text != "第九十条第二項" {
		t.Errorf("kept %q, want the longer match", out[0].Text)
	}
}

func TestDedupeDropsExactDuplicate(t *testing.T) {
	refs := []ref.Reference{
		{Text: "第三条", Span: span(5, 14), Confidence: 0.85},
		{Text: "第三条", Span: span(5, 14), Confidence: 0.70},
	}
	out := Dedupe(refs)
	if len(out) != 1 {
		t.Fatalf("got %d references, want 1", len(out))
	}
	if out[0].Confidence != 0.85 {
		t.Errorf("kept confidence %v, want 0.85", out[0].Confidence)
	}
}

func TestDedupePartialOverlap(t *testing.T) {
	refs := []ref.Reference{
		{Text: "a", Span: span(0, 10), Confidence: 0.6},
		{Text: "b", Span: span(6, 16), Confidence: 0.9},
	}
	out := Dedupe(refs)
	if len(out) != 1 {
		t.Fatalf("got %d references, want 1", len(out))
	}
	if out[0].Text != "b" {
		t.Errorf("kept %q, want the more confident candidate", out[0].Text)
	}

	// Same overlap, earlier candidate at least as confident: it wins.
	refs[0].Confidence = 0.9
	refs[1].Confidence = 0.9
	out = Dedupe(refs)
	if len(out) != 1 || out[0].Text != "a" {
		t.Errorf("got %+v, want the earlier candidate", out)
	}
}

func TestDedupeNonOverlapping(t *testing.T) {
	refs := []ref.Reference{
		{Text: "b", Span: span(20, 30)},
		{Text: "a", Span: span(0, 10)},
		{Text: "c", Span: span(40, 50)},
	}
	out := Dedupe(refs)
	if len(out) != 3 {
		t.Fatalf("got %d references, want 3", len(out))
	}
	for i, want := range []string{"a", "b", "c"} {
		if out[i].Text != want {
			t.Errorf("out[%d] = %q, want %q", i, out[i].Text, want)
		}
	}
}

func TestDedupeKeepsExpandedChildren(t *testing.T) {
	parent := ref.Reference{
		Type: ref.TypeRange,
		Text: "第一条から第三条まで",
		Span: span(0, 30),
	}
	child := func(article string) ref.Reference {
		return ref.Reference{
			Type:          ref.TypeInternal,
			TargetArticle: article,
			Text:          article,
			Span:          span(0, 30),
			Detail:        ref.ExpandedDetail{FromRange: span(0, 30)},
		}
	}

	out := Dedupe([]ref.Reference{parent, child("一"), child("二"), child("三")})
	if len(out) != 4 {
		t.Fatalf("got %d references, want parent plus 3 children", len(out))
	}
}

func TestDedupeEmpty(t *testing.T) {
	if out := Dedupe(nil); len(out) != 0 {
		t.Errorf("Dedupe(nil) = %v", out)
	}
}

// Package relative resolves position-dependent references (前条, 次項,
// 同条第二項, 前各号 and their variants) against the tracker context.
package relative

import (
	"fmt"
	"regexp"

	"github.com/kasumigaseki/refmap/pkg/kansuji"
	"github.com/kasumigaseki/refmap/pkg/ref"
	"github.com/kasumigaseki/refmap/pkg/tracker"
)

// Resolved is the outcome of resolving one relative expression. A failed
// resolution still returns a value: Err explains the failure and the
// confidence drops below the low threshold so callers can filter.
type Resolved struct {
	LawID          string
	Article        float64
	ArticleDisplay string
	Paragraph      int
	Item           string
	Confidence     float64
	Err            string
	Note           string
}

const failConfidence = 0.30

// Anchored forms, most specific first. The pattern rules guarantee the
// text is exactly one of these, but resolution re-parses defensively.
var (
	compoundRe  = regexp.MustCompile(`^(前々条|次々条|前条|次条|同条|本条)第([0-9一二三四五六七八九十百千]+)項(?:第([0-9一二三四五六七八九十百千]+)号)?$`)
	paraItemRe  = regexp.MustCompile(`^(前項|次項|同項|本項)第([0-9一二三四五六七八九十百千]+)号$`)
	articleNRe  = regexp.MustCompile(`^([前次])([0-9一二三四五六七八九十百千]+)条$`)
	paraNRe     = regexp.MustCompile(`^([前次])([0-9一二三四五六七八九十百千]+)項$`)
	plainForms  = regexp.MustCompile(`^(前々条|次々条|前条|次条|前々項|次々項|前項|次項|前号|次号|同条|本条|同項|本項|同号|前各項|前各号|各項|各号)$`)
)

// Resolve maps a relative expression to a concrete target. The context is
// read-only here; the detector decides whether to advance it.
func Resolve(text string, ctx *tracker.Context) Resolved {
	if ctx == nil {
		return Resolved{Confidence: failConfidence, Err: "文脈が設定されていません"}
	}

	if m := compoundRe.FindStringSubmatch(text); m != nil {
		return resolveCompound(m, ctx)
	}
	if m := paraItemRe.FindStringSubmatch(text); m != nil {
		return resolveParagraphItem(m, ctx)
	}
	if m := articleNRe.FindStringSubmatch(text); m != nil {
		return resolveArticleN(m, ctx)
	}
	if m := paraNRe.FindStringSubmatch(text); m != nil {
		return resolveParagraphN(m, ctx)
	}
	if plainForms.MatchString(text) {
		return resolvePlain(text, ctx)
	}

	return Resolved{Confidence: failConfidence, Err: fmt.Sprintf("相対参照を解釈できません: %s", text)}
}

func resolveCompound(m []string, ctx *tracker.Context) Resolved {
	r := shiftArticle(m[1], ctx)
	if r.Err != "" {
		return r
	}
	p, ok := kansuji.ParseInt(m[2])
	if !ok {
		return Resolved{Confidence: failConfidence, Err: fmt.Sprintf("項番号を解釈できません: %s", m[2])}
	}
	r.Paragraph = p
	if m[3] != "" {
		r.Item = m[3]
	}
	return r
}

func resolveParagraphItem(m []string, ctx *tracker.Context) Resolved {
	r := shiftParagraph(m[1], ctx)
	if r.Err != "" {
		return r
	}
	r.Item = m[2]
	return r
}

func resolveArticleN(m []string, ctx *tracker.Context) Resolved {
	n, ok := kansuji.ParseInt(m[2])
	if !ok {
		return Resolved{Confidence: failConfidence, Err: fmt.Sprintf("条番号を解釈できません: %s", m[2])}
	}
	delta := n
	if m[1] == "前" {
		delta = -n
	}
	r := articleAt(ctx, delta)
	if r.Err != "" {
		return r
	}
	// 前三条 names a span ending at the adjacent article; the resolved
	// target is the far end.
	if n > 1 {
		near := articleAt(ctx, sign(delta))
		if near.Err == "" {
			r.Note = fmt.Sprintf("第%s条から第%s条までを指す", r.ArticleDisplay, near.ArticleDisplay)
		}
	}
	return r
}

func resolveParagraphN(m []string, ctx *tracker.Context) Resolved {
	n, ok := kansuji.ParseInt(m[2])
	if !ok {
		return Resolved{Confidence: failConfidence, Err: fmt.Sprintf("項番号を解釈できません: %s", m[2])}
	}
	delta := n
	if m[1] == "前" {
		delta = -n
	}
	return paragraphAt(ctx, delta)
}

func resolvePlain(text string, ctx *tracker.Context) Resolved {
	switch text {
	case "前条":
		return articleAt(ctx, -1)
	case "前々条":
		return articleAt(ctx, -2)
	case "次条":
		return articleAt(ctx, 1)
	case "次々条":
		return articleAt(ctx, 2)
	case "前項":
		return paragraphAt(ctx, -1)
	case "前々項":
		return paragraphAt(ctx, -2)
	case "次項":
		return paragraphAt(ctx, 1)
	case "次々項":
		return paragraphAt(ctx, 2)
	case "前号", "次号":
		return itemShift(ctx, text)
	case "同条", "本条":
		return here(ctx, ref.ConfidenceRelativeHigh)
	case "同項", "本項":
		r := here(ctx, ref.ConfidenceRelativeHigh)
		r.Paragraph = ctx.Paragraph
		return r
	case "同号", "本号":
		r := here(ctx, ref.ConfidenceRelativeHigh)
		r.Paragraph = ctx.Paragraph
		if ctx.Item == "" {
			r.Confidence = failConfidence
			r.Err = "現在の号が設定されていません"
		}
		r.Item = ctx.Item
		return r
	case "前各項":
		// Representative target is the immediately preceding paragraph;
		// the note names the full span.
		if ctx.Paragraph <= 1 {
			return Resolved{Confidence: failConfidence, Err: "前の項が存在しません（第1項）"}
		}
		r := here(ctx, ref.ConfidenceRelativeHigh)
		r.Paragraph = ctx.Paragraph - 1
		r.Note = fmt.Sprintf("第1項から第%d項までを指す", ctx.Paragraph-1)
		return r
	case "前各号":
		if ctx.Item != "" {
			r := itemShift(ctx, "前号")
			if r.Err == "" {
				if _, iroha := kansuji.IrohaToInt(r.Item); iroha {
					r.Note = fmt.Sprintf("イから%sまでの各号を指す", r.Item)
				} else {
					r.Note = fmt.Sprintf("第一号から第%s号までを指す", r.Item)
				}
			}
			return r
		}
		r := here(ctx, ref.ConfidenceContextual)
		r.Paragraph = ctx.Paragraph
		r.Note = "列挙された号の全体を指す"
		return r
	case "各項", "各号":
		r := here(ctx, ref.ConfidenceContextual)
		r.Paragraph = ctx.Paragraph
		r.Note = "列挙された項号の全体を指す"
		return r
	}
	return Resolved{Confidence: failConfidence, Err: fmt.Sprintf("相対参照を解釈できません: %s", text)}
}

// shiftArticle handles the article head of a compound expression.
func shiftArticle(head string, ctx *tracker.Context) Resolved {
	switch head {
	case "前条":
		return articleAt(ctx, -1)
	case "前々条":
		return articleAt(ctx, -2)
	case "次条":
		return articleAt(ctx, 1)
	case "次々条":
		return articleAt(ctx, 2)
	default: // 同条, 本条
		return here(ctx, ref.ConfidenceRelativeHigh)
	}
}

func shiftParagraph(head string, ctx *tracker.Context) Resolved {
	switch head {
	case "前項":
		return paragraphAt(ctx, -1)
	case "次項":
		return paragraphAt(ctx, 1)
	default: // 同項, 本項
		r := here(ctx, ref.ConfidenceRelativeHigh)
		r.Paragraph = ctx.Paragraph
		return r
	}
}

// articleAt shifts whole articles. Branch articles (三の二) shift on the
// main number: 前条 of 第3条の2 is 第3条, not 第2条の something.
func articleAt(ctx *tracker.Context, delta int) Resolved {
	main := kansuji.Main(ctx.Article)
	branch := kansuji.Branch(ctx.Article)

	var target int
	if branch > 0 && delta == -1 {
		// Off the branch back onto the main article.
		target = main
	} else {
		target = main + delta
	}
	if target < 1 {
		return Resolved{
			LawID:      ctx.LawID,
			Article:    ctx.Article,
			Confidence: failConfidence,
			Err:        "前条が存在しません（第1条）",
		}
	}

	return Resolved{
		LawID:          ctx.LawID,
		Article:        float64(target),
		ArticleDisplay: kansuji.FromInt(target),
		Paragraph:      1,
		Confidence:     ref.ConfidenceRelativeHigh,
	}
}

func paragraphAt(ctx *tracker.Context, delta int) Resolved {
	target := ctx.Paragraph + delta
	if target < 1 {
		return Resolved{
			LawID:      ctx.LawID,
			Article:    ctx.Article,
			Paragraph:  ctx.Paragraph,
			Confidence: failConfidence,
			Err:        "前項が存在しません（第1項）",
		}
	}
	r := here(ctx, ref.ConfidenceRelativeHigh)
	r.Paragraph = target
	return r
}

func itemShift(ctx *tracker.Context, text string) Resolved {
	if ctx.Item == "" {
		return Resolved{Confidence: failConfidence, Err: "現在の号が設定されていません"}
	}
	delta := 1
	errMsg := "次号が存在しません"
	if text == "前号" {
		delta = -1
		errMsg = "前号が存在しません（第1号）"
	}

	r := here(ctx, ref.ConfidenceRelativeHigh)
	r.Paragraph = ctx.Paragraph

	if n, ok := kansuji.ParseInt(ctx.Item); ok {
		if n+delta < 1 {
			r.Confidence = failConfidence
			r.Err = errMsg
			return r
		}
		r.Item = kansuji.FromInt(n + delta)
		return r
	}
	if n, ok := kansuji.IrohaToInt(ctx.Item); ok {
		next, ok := kansuji.IrohaFromInt(n + delta)
		if !ok {
			r.Confidence = failConfidence
			r.Err = errMsg
			return r
		}
		r.Item = next
		return r
	}

	r.Confidence = failConfidence
	r.Err = fmt.Sprintf("号番号を解釈できません: %s", ctx.Item)
	return r
}

// here returns the current position without the paragraph — callers set
// Paragraph when the expression pins it.
func here(ctx *tracker.Context, confidence float64) Resolved {
	return Resolved{
		LawID:          ctx.LawID,
		Article:        ctx.Article,
		ArticleDisplay: kansuji.FormatArticle(ctx.Article),
		Confidence:     confidence,
	}
}

func sign(n int) int {
	if n < 0 {
		return -1
	}
	return 1
}

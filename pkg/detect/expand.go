package detect

import (
	"context"

	"github.com/kasumigaseki/refmap/pkg/jptext"
	"github.com/kasumigaseki/refmap/pkg/kansuji"
	"github.com/kasumigaseki/refmap/pkg/ref"
	"github.com/kasumigaseki/refmap/pkg/tracker"
)

// disambiguate runs the LLM pass over references that stayed ambiguous.
// Failures are logged and skipped; the deterministic result stands.
func (d *Detector) disambiguate(ctx context.Context, norm string, refs []ref.Reference, work *tracker.Context) []ref.Reference {
	if jptext.RuneLen(norm) > d.cfg.LLMMaxRunes {
		return refs
	}

	var recent []string
	for _, m := range work.Recent {
		recent = append(recent, m.LawName)
	}

	for i := range refs {
		r := &refs[i]
		if r.TargetLawID != "" || r.Confidence > ref.ConfidenceAmbiguous {
			continue
		}
		if r.Type != ref.TypeContextual && r.Type != ref.TypeDefined {
			continue
		}

		window := jptext.Window(norm, r.Span.Start, r.Span.End, d.cfg.LLMWindow)
		ans, err := d.disamb.Resolve(ctx, r.Text, window, recent)
		if err != nil {
			d.log.Warn().Err(err).Str("text", r.Text).Msg("llm disambiguation failed")
			continue
		}
		if ans == nil {
			continue
		}

		r.TargetLaw = ans.LawName
		if id := d.lookupName(ans.LawName); id != "" {
			r.TargetLawID = id
		}
		if ans.Article != "" && r.TargetArticle == "" {
			r.TargetArticle = ans.Article
		}
		r.Confidence = ans.Confidence
		r.Method = ref.MethodLLM
		r.Detail = ref.LLMDetail{Reasoning: ans.Reasoning}
	}
	return refs
}

// expand appends synthesized references after each range and multi-article
// citation. Children share the parent's span and carry ExpandedDetail, so
// consumers can tell them from direct matches.
func (d *Detector) expand(refs []ref.Reference) []ref.Reference {
	var out []ref.Reference
	for _, r := range refs {
		out = append(out, r)
		switch detail := r.Detail.(type) {
		case ref.RangeDetail:
			out = append(out, d.expandRange(r, detail)...)
		case ref.MultiDetail:
			out = append(out, d.expandMulti(r, detail)...)
		}
	}
	return out
}

func (d *Detector) expandRange(parent ref.Reference, detail ref.RangeDetail) []ref.Reference {
	n := detail.EndValue - detail.StartValue + 1
	if n < 1 || n > d.cfg.MaxExpand {
		return nil
	}

	iroha := false
	if detail.Unit == "item" {
		if _, ok := kansuji.IrohaToInt(detail.Start); ok {
			iroha = true
		}
	}

	children := make([]ref.Reference, 0, n)
	for v := detail.StartValue; v <= detail.EndValue; v++ {
		child := ref.Reference{
			Type:        ref.TypeInternal,
			Text:        parent.Text,
			Span:        parent.Span,
			TargetLawID: parent.TargetLawID,
			TargetLaw:   parent.TargetLaw,
			Confidence:  parent.Confidence,
			Method:      parent.Method,
			Detail:      ref.ExpandedDetail{FromRange: parent.Span},
		}
		switch detail.Unit {
		case "article":
			child.TargetArticle = kansuji.FromInt(v)
		case "paragraph":
			child.TargetArticle = parent.TargetArticle
			child.TargetParagraph = v
		default:
			child.TargetArticle = parent.TargetArticle
			if iroha {
				s, ok := kansuji.IrohaFromInt(v)
				if !ok {
					continue
				}
				child.TargetItem = s
			} else {
				child.TargetItem = kansuji.FromInt(v)
			}
		}
		children = append(children, child)
	}
	return children
}

func (d *Detector) expandMulti(parent ref.Reference, detail ref.MultiDetail) []ref.Reference {
	if len(detail.Articles) > d.cfg.MaxExpand {
		return nil
	}
	children := make([]ref.Reference, 0, len(detail.Articles))
	for _, a := range detail.Articles {
		children = append(children, ref.Reference{
			Type:          ref.TypeInternal,
			Text:          parent.Text,
			Span:          parent.Span,
			TargetLawID:   parent.TargetLawID,
			TargetLaw:     parent.TargetLaw,
			TargetArticle: a,
			Confidence:    parent.Confidence,
			Method:        parent.Method,
			Detail:        ref.ExpandedDetail{FromRange: parent.Span},
		})
	}
	return children
}

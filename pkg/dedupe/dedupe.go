// Package dedupe reduces overlapping reference candidates to a single
// non-overlapping, position-ordered list.
package dedupe

import (
	"sort"

	"github.com/kasumigaseki/refmap/pkg/ref"
)

// Dedupe resolves span overlaps. Longer matches win over matches they
// contain (第90条第2項 over 第90条); among partial overlaps the earlier,
// then more confident, candidate wins. Expanded children share their
// parent's span and are exempt from the overlap rules. The input slice is
// not modified.
func Dedupe(refs []ref.Reference) []ref.Reference {
	if len(refs) <= 1 {
		return append([]ref.Reference(nil), refs...)
	}

	work := append([]ref.Reference(nil), refs...)

	// Start ascending; on ties the longer span first, then the more
	// confident candidate.
	sort.SliceStable(work, func(i, j int) bool {
		a, b := work[i], work[j]
		if a.Span.Start != b.Span.Start {
			return a.Span.Start < b.Span.Start
		}
		if a.Span.End != b.Span.End {
			return a.Span.End > b.Span.End
		}
		return a.Confidence > b.Confidence
	})

	var out []ref.Reference
	for _, c := range work {
		if c.IsExpanded() {
			out = append(out, c)
			continue
		}

		n := len(out)
		if n == 0 {
			out = append(out, c)
			continue
		}
		prev := &out[n-1]
		if prev.IsExpanded() || !prev.Span.Overlaps(c.Span) {
			out = append(out, c)
			continue
		}

		switch {
		case prev.Span.Contains(c.Span):
			// Duplicate or sub-span of an accepted candidate.
		case c.Span.Contains(prev.Span):
			*prev = c
		case c.Confidence > prev.Confidence:
			*prev = c
		}
		// Equal-or-lower-confidence partial overlap loses to the
		// earlier candidate.
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Span.Start != out[j].Span.Start {
			return out[i].Span.Start < out[j].Span.Start
		}
		return out[i].Span.End < out[j].Span.End
	})
	return out
}

// Package negative drops reference candidates that appear in contexts
// where no live cross-reference exists: deleted provisions, superseded
// text, drafts, amendment instructions and plain commentary.
package negative

import (
	"regexp"

	"github.com/kasumigaseki/refmap/pkg/jptext"
	"github.com/kasumigaseki/refmap/pkg/ref"
)

// DefaultWindow is the rune radius inspected around each candidate.
const DefaultWindow = 30

// rule pairs a pattern with the reason recorded when it fires.
type rule struct {
	re     *regexp.Regexp
	reason string
}

var rules = []rule{
	// Deleted or vacated provisions.
	{regexp.MustCompile(`条?を?削除`), "deleted"},
	{regexp.MustCompile(`欠番`), "deleted"},

	// Superseded text. 旧法 alone is a live defined alias; only the
	// prefixed forms (旧民法第…, 改正前の…) are negative.
	{regexp.MustCompile(`旧[\p{Han}]{1,20}法第`), "superseded"},
	{regexp.MustCompile(`改正前の`), "superseded"},

	// Hypothetical or not-yet-enacted text.
	{regexp.MustCompile(`仮称`), "hypothetical"},
	{regexp.MustCompile(`草案`), "hypothetical"},
	{regexp.MustCompile(`検討中`), "hypothetical"},

	// Amendment instructions: the article numbers are edit operands,
	// not references.
	{regexp.MustCompile(`中「[^」]*」を「[^」]*」に改める`), "amendment"},
	{regexp.MustCompile(`第[0-9一二三四五六七八九十百千]+条を第[0-9一二三四五六七八九十百千]+条とする`), "amendment"},
	{regexp.MustCompile(`次の[0-9一二三四五六七八九十百千]+[条項号]を加える`), "amendment"},
	{regexp.MustCompile(`を削り`), "amendment"},

	// Commentary about provisions rather than application of them.
	{regexp.MustCompile(`条については`), "commentary"},
	{regexp.MustCompile(`の趣旨`), "commentary"},
	{regexp.MustCompile(`例えば、?第`), "commentary"},
}

// Filter inspects a window of text around each candidate.
type Filter struct {
	// Window is the rune radius checked on each side of the candidate.
	Window int
}

// New returns a filter with the default window.
func New() *Filter {
	return &Filter{Window: DefaultWindow}
}

// Check reports whether the window around a span marks the reference as
// negative, and the reason.
func (f *Filter) Check(text string, span ref.Span) (string, bool) {
	w := f.Window
	if w <= 0 {
		w = DefaultWindow
	}
	window := jptext.Window(text, span.Start, span.End, w)
	for _, r := range rules {
		if r.re.MatchString(window) {
			return r.reason, true
		}
	}
	return "", false
}

// Filter returns the references whose context windows pass every rule,
// preserving order.
func (f *Filter) Filter(text string, refs []ref.Reference) []ref.Reference {
	if len(refs) == 0 {
		return refs
	}
	kept := refs[:0:0]
	for _, r := range refs {
		if _, bad := f.Check(text, r.Span); !bad {
			kept = append(kept, r)
		}
	}
	return kept
}

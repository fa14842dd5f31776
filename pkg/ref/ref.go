// Package ref defines the reference data model shared by the detection
// pipeline: the Reference record, its closed type and method sets, the
// tagged per-type detail variants, and the named confidence constants.
package ref

// Type classifies a detected reference.
type Type string

const (
	TypeInternal    Type = "internal"    // same-law article/paragraph/item citation
	TypeExternal    Type = "external"    // citation of another statute
	TypeRelative    Type = "relative"    // 前条/次条/前項 and friends
	TypeRange       Type = "range"       // 第X条から第Y条まで
	TypeStructural  Type = "structural"  // 編/章/節/款/目 headings
	TypeApplication Type = "application" // 準用/読替え constructs
	TypeContextual  Type = "contextual"  // 同法/当該法 resolved from reading context
	TypeDefined     Type = "defined"     // alias bound earlier in the text (新法 etc.)
	TypeConditional Type = "conditional" // 場合には/ときは guarded references
)

// Method records how a reference's target was resolved.
type Method string

const (
	MethodPattern    Method = "pattern"
	MethodDictionary Method = "dictionary"
	MethodContext    Method = "context"
	MethodRelative   Method = "relative"
	MethodDefinition Method = "definition"
	MethodLawNumber  Method = "lawNumber"
	MethodLLM        Method = "llm"
)

// Named confidence levels. These are empirically tuned values carried over
// from production runs; do not re-derive them.
const (
	ConfidenceLawNumber      = 0.98 // explicit era/number citation resolved
	ConfidenceDictionary     = 0.95 // name dictionary hit with explicit article
	ConfidenceStructural     = 0.95
	ConfidenceRelativeHigh   = 0.95 // relative resolution succeeded
	ConfidenceContextual     = 0.90
	ConfidenceBasic          = 0.85 // law name without dictionary backing
	ConfidenceCompound       = 0.80
	ConfidenceLLMCap         = 0.70 // upper bound for LLM-assisted results
	ConfidenceAmbiguous      = 0.60
	ConfidenceLLMFloor       = 0.50
	ThresholdContextUpdate   = 0.70 // minimum to advance the working context
	ThresholdLowConfidence   = 0.50 // below this, callers should render skeptically
)

// Span is a half-open [Start,End) byte range into the scanned text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether s fully contains other.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Overlaps reports whether the two spans share any bytes.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Len returns the span length in bytes.
func (s Span) Len() int { return s.End - s.Start }

// Reference is one resolved cross-reference in a scanned text.
type Reference struct {
	Type Type   `json:"type"`
	Text string `json:"text"`
	Span Span   `json:"span"`

	TargetLawID     string `json:"target_law_id,omitempty"`
	TargetLaw       string `json:"target_law,omitempty"`
	TargetArticle   string `json:"target_article,omitempty"`
	TargetParagraph int    `json:"target_paragraph,omitempty"`
	TargetItem      string `json:"target_item,omitempty"`

	Confidence float64 `json:"confidence"`
	Method     Method  `json:"resolution_method"`

	Detail Detail `json:"detail,omitempty"`
}

// Detail carries the fields relevant to one reference type. Exactly one
// variant is attached per reference; plain citations carry none.
type Detail interface {
	detailKind() string
}

// RangeDetail describes an article/paragraph/item range reference.
type RangeDetail struct {
	Unit       string `json:"unit"` // "article", "paragraph", "item"
	Start      string `json:"range_start"`
	End        string `json:"range_end"`
	StartValue int    `json:"start_value,omitempty"`
	EndValue   int    `json:"end_value,omitempty"`
}

func (RangeDetail) detailKind() string { return "range" }

// RelativeDetail carries the resolution outcome of a relative reference.
type RelativeDetail struct {
	Resolved bool   `json:"resolved"`
	Error    string `json:"error,omitempty"` // human-readable, e.g. underflow at article 1
	Note     string `json:"note,omitempty"`  // implied set for 前各項/前各号
}

func (RelativeDetail) detailKind() string { return "relative" }

// StructuralDetail names the structural unit a heading reference points at.
type StructuralDetail struct {
	Unit   string `json:"unit"` // 編, 章, 節, 款, 目
	Number int    `json:"number"`
}

func (StructuralDetail) detailKind() string { return "structural" }

// ApplicationDetail distinguishes 準用 from 読替え constructs.
type ApplicationDetail struct {
	Kind string `json:"kind"` // "junyo" or "yomikae"
}

func (ApplicationDetail) detailKind() string { return "application" }

// MultiDetail lists the article numbers of a conjunctive citation
// (第五条、第六条及び第七条).
type MultiDetail struct {
	Articles []string `json:"articles"`
}

func (MultiDetail) detailKind() string { return "multi" }

// ExpandedDetail marks a reference synthesized by range expansion. Expanded
// references share the parent range's span.
type ExpandedDetail struct {
	FromRange Span `json:"from_range"`
}

func (ExpandedDetail) detailKind() string { return "expanded" }

// LLMDetail records the reasoning behind an LLM-assisted resolution.
type LLMDetail struct {
	Reasoning string `json:"reasoning,omitempty"`
}

func (LLMDetail) detailKind() string { return "llm" }

// IsExpanded reports whether r was synthesized by range expansion rather
// than matched directly in the text.
func (r *Reference) IsExpanded() bool {
	_, ok := r.Detail.(ExpandedDetail)
	return ok
}

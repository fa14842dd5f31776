// Package pattern holds the ordered library of matching rules that turn raw
// statutory text into reference candidates. Rules are declarative: one
// regular expression plus a category, a reference type, and a base
// confidence. Rule priority is not resolved here — overlapping candidates
// are settled later by span subsumption.
package pattern

import (
	"fmt"
	"regexp"

	"github.com/kasumigaseki/refmap/pkg/ref"
)

// Category groups rules by the construct they recognize.
type Category string

const (
	CategoryStructural  Category = "structural"  // 編/章/節/款/目 headings
	CategoryBasic       Category = "basic"       // law name + article, bare article
	CategoryImplicit    Category = "implicit"    // 前条/次条/同項 and friends
	CategoryCompound    Category = "compound"    // 前条第2項, conditional guards
	CategoryRange       Category = "range"       // 第X条から第Y条まで
	CategoryApplication Category = "application" // 準用/読替え
	CategoryMultiTarget Category = "multi"       // conjunctive lists
	CategoryContextual  Category = "contextual"  // 同法, quoted names, aliases
)

// Capture holds the structured fields a rule extracted from its match.
// Numerals are kept in their source form (kanji or digits); the pipeline
// parses them with kansuji when it needs values.
type Capture struct {
	LawName   string // statute display name
	LawNumber string // era-year-number citation text, e.g. 明治二十九年法律第八十九号
	Alias     string // contextual term: 同法, 新法, a quoted short name

	Article      string // article numeral, may carry branches (三の二)
	ArticleEnd   string // range end article
	Paragraph    string
	ParagraphEnd string
	Item         string
	ItemEnd      string

	Articles []string // conjunctive list members

	Unit   string // structural unit: 編, 章, 節, 款, 目
	Number string // structural unit numeral

	ApplicationKind string // "junyo" or "yomikae"

	// Suspicious marks a law name that looks like a descriptive prose
	// fragment; the pipeline keeps it only if the dictionary confirms it.
	Suspicious bool
}

// Candidate is one potential reference produced by a rule.
type Candidate struct {
	Rule       string   `json:"rule"`
	Category   Category `json:"category"`
	Type       ref.Type `json:"type"`
	Text       string   `json:"text"`
	Span       ref.Span `json:"span"`
	Confidence float64  `json:"confidence"`
	Capture    Capture  `json:"capture"`
}

// BuildFunc turns one regex match into zero or more candidates. m is the
// submatch index slice from FindAllStringSubmatchIndex. Returning nil
// rejects the match.
type BuildFunc func(r *Rule, text string, m []int) []Candidate

// Rule is one entry in the pattern library.
type Rule struct {
	Name           string
	Category       Category
	Type           ref.Type
	Pattern        string
	BaseConfidence float64

	// Build post-processes matches; nil uses the named-group default.
	Build BuildFunc

	re *regexp.Regexp
}

// Compile compiles the rule's pattern.
func (r *Rule) Compile() error {
	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		return fmt.Errorf("compiling rule %q: %w", r.Name, err)
	}
	r.re = re
	return nil
}

// group returns the named submatch from an index slice, or "".
func (r *Rule) group(text string, m []int, name string) string {
	idx := r.re.SubexpIndex(name)
	if idx < 0 || 2*idx+1 >= len(m) || m[2*idx] < 0 {
		return ""
	}
	return text[m[2*idx]:m[2*idx+1]]
}

// defaultBuild maps the conventional group names onto a Capture.
func defaultBuild(r *Rule, text string, m []int) []Candidate {
	c := Candidate{
		Rule:       r.Name,
		Category:   r.Category,
		Type:       r.Type,
		Text:       text[m[0]:m[1]],
		Span:       ref.Span{Start: m[0], End: m[1]},
		Confidence: r.BaseConfidence,
		Capture: Capture{
			LawName:      r.group(text, m, "law"),
			LawNumber:    r.group(text, m, "lawnum"),
			Alias:        r.group(text, m, "alias"),
			Article:      r.group(text, m, "article") + r.group(text, m, "branch"),
			ArticleEnd:   r.group(text, m, "article2") + r.group(text, m, "branch2"),
			Paragraph:    r.group(text, m, "paragraph"),
			ParagraphEnd: r.group(text, m, "paragraph2"),
			Item:         r.group(text, m, "item"),
			ItemEnd:      r.group(text, m, "item2"),
			Unit:         r.group(text, m, "unit"),
			Number:       r.group(text, m, "number"),
		},
	}
	return []Candidate{c}
}

// Library is an ordered, append-only collection of compiled rules.
type Library struct {
	rules []*Rule
}

// NewLibrary returns a library preloaded with the built-in rule table.
func NewLibrary() *Library {
	lib := &Library{}
	for _, r := range builtinRules() {
		// Built-in patterns are compile-checked by tests; a failure here
		// is a programming error.
		if err := r.Compile(); err != nil {
			panic(err)
		}
		lib.rules = append(lib.rules, r)
	}
	return lib
}

// Append adds a compiled rule after the existing table. Used by the YAML
// overlay registry; built-in rules always come first.
func (l *Library) Append(r *Rule) error {
	if r.re == nil {
		if err := r.Compile(); err != nil {
			return err
		}
	}
	l.rules = append(l.rules, r)
	return nil
}

// Rules returns the ordered rule table.
func (l *Library) Rules() []*Rule {
	return l.rules
}

// Find runs every rule over the text and collects candidates. Each rule is
// independent: a panic inside one rule's builder is contained and the
// remaining rules still run.
func (l *Library) Find(text string) []Candidate {
	if text == "" {
		return nil
	}

	var out []Candidate
	for _, r := range l.rules {
		out = append(out, l.findOne(r, text)...)
	}
	return out
}

func (l *Library) findOne(r *Rule, text string) (cands []Candidate) {
	defer func() {
		if p := recover(); p != nil {
			// Fail-soft per rule: drop this rule's output only.
			cands = nil
		}
	}()

	matches := r.re.FindAllStringSubmatchIndex(text, -1)
	build := r.Build
	if build == nil {
		build = defaultBuild
	}
	for _, m := range matches {
		cands = append(cands, build(r, text, m)...)
	}
	return cands
}

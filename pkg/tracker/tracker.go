// Package tracker maintains the reading position and law mentions that
// implicit and contextual references resolve against.
package tracker

import "regexp"

// recentCap bounds the mention ring. Five laws back is as far as 同法-style
// references reach in practice.
const recentCap = 5

// LawMention records one explicit law reference seen during a scan. Pos is
// the byte offset of the mention in the normalized text.
type LawMention struct {
	LawID   string
	LawName string
	Pos     int
}

// DefinedLaw is a recorded alias target with the offset of its definition.
type DefinedLaw struct {
	LawID string
	Pos   int
}

// Context is the tracker state at one point of the document. It is not
// safe for concurrent use; the detector clones it for speculative updates.
type Context struct {
	// Current position within the host law.
	LawID     string
	LawName   string
	Article   float64
	Paragraph int
	Item      string

	// Recent holds the last few law mentions, newest last.
	Recent []LawMention

	// Definitions maps alias to its target, first definition wins.
	Definitions map[string]DefinedLaw
}

// New returns a context positioned at the given law and article.
func New(lawID string, article float64) *Context {
	return &Context{
		LawID:       lawID,
		Article:     article,
		Paragraph:   1,
		Definitions: make(map[string]DefinedLaw),
	}
}

// NoteLaw pushes a law mention onto the ring, evicting the oldest entry
// when full. A repeat of the newest mention is a no-op.
func (c *Context) NoteLaw(id, name string, pos int) {
	if n := len(c.Recent); n > 0 && c.Recent[n-1].LawID == id {
		return
	}
	c.Recent = append(c.Recent, LawMention{LawID: id, LawName: name, Pos: pos})
	if len(c.Recent) > recentCap {
		c.Recent = c.Recent[len(c.Recent)-recentCap:]
	}
}

// LastLaw returns the most recent mention, if any.
func (c *Context) LastLaw() (LawMention, bool) {
	if len(c.Recent) == 0 {
		return LawMention{}, false
	}
	return c.Recent[len(c.Recent)-1], true
}

// RecordDefinition registers an alias. Definitions are stable for the rest
// of the document: a second definition of the same alias is ignored.
func (c *Context) RecordDefinition(alias, lawID string, pos int) {
	if alias == "" || lawID == "" {
		return
	}
	if _, seen := c.Definitions[alias]; seen {
		return
	}
	c.Definitions[alias] = DefinedLaw{LawID: lawID, Pos: pos}
}

// ResolveDefinition looks up an alias.
func (c *Context) ResolveDefinition(alias string) (string, bool) {
	d, ok := c.Definitions[alias]
	return d.LawID, ok
}

// Clone copies the context so a caller can advance it speculatively.
func (c *Context) Clone() *Context {
	dup := *c
	dup.Recent = append([]LawMention(nil), c.Recent...)
	dup.Definitions = make(map[string]DefinedLaw, len(c.Definitions))
	for k, v := range c.Definitions {
		dup.Definitions[k] = v
	}
	return &dup
}

// Definition patterns. Texts are width-folded, so parentheses are ASCII.
// The 改正後の form comes before the generic parenthetical form: the
// generic law-name class admits hiragana and would otherwise swallow the
// 改正後の prefix into the name.
var definitionRes = []*regexp.Regexp{
	// 改正後の民法(以下「新法」という。)
	regexp.MustCompile(`改正後の(?P<law>[\p{Han}\p{Hiragana}\p{Katakana}ー々]{1,30}(?:法律|法|令))\([^)]*?以下「(?P<alias>[^」]{1,20})」という。?\)`),
	// 民法(明治二十九年法律第八十九号。以下「法」という。)
	regexp.MustCompile(`(?P<law>[\p{Han}\p{Hiragana}\p{Katakana}ー々]{1,30}(?:法律|法|令))\([^)]*?以下「(?P<alias>[^」]{1,20})」という。?\)`),
	// 民法を以下「法」という
	regexp.MustCompile(`(?P<law>[\p{Han}\p{Hiragana}\p{Katakana}ー々]{1,30}(?:法律|法|令))を以下「(?P<alias>[^」]{1,20})」という`),
	// この法律において「委託者」とは、…をいう
	regexp.MustCompile(`この法律において「(?P<alias>[^」]{1,20})」とは、(?P<law>[^。]{1,60})をいう`),
}

// Definition is one alias introduction found in the text.
type Definition struct {
	Alias   string
	LawName string
	Start   int
	End     int
}

// DetectDefinitions scans normalized text for alias introductions. The
// caller resolves LawName to an ID before recording. Patterns run in
// priority order; an alias keeps its first detection.
func DetectDefinitions(text string) []Definition {
	var defs []Definition
	seen := make(map[string]bool)
	for _, re := range definitionRes {
		aliasIdx := re.SubexpIndex("alias")
		lawIdx := re.SubexpIndex("law")
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			d := Definition{Start: m[0], End: m[1]}
			if i := 2 * aliasIdx; m[i] >= 0 {
				d.Alias = text[m[i]:m[i+1]]
			}
			if i := 2 * lawIdx; m[i] >= 0 {
				d.LawName = text[m[i]:m[i+1]]
			}
			if d.Alias != "" && !seen[d.Alias] {
				seen[d.Alias] = true
				defs = append(defs, d)
			}
		}
	}
	return defs
}

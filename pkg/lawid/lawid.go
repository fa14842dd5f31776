// Package lawid resolves statute names and promulgation numbers to law
// identifiers, and validates article numbers against catalogue metadata.
//
// Identifiers follow the e-Gov scheme: an era digit, the two-digit era
// year, a law-type code and a ten-digit serial, e.g. 129AC0000000089 for
// 民法 (明治29年法律第89号).
package lawid

import (
	"fmt"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kasumigaseki/refmap/pkg/kansuji"
)

// Resolver answers name and number lookups for the detector. The detector
// calls it on the hot path, so implementations must be safe for concurrent
// reads once built.
type Resolver interface {
	// FindLawIDByName resolves an exact statute name or registered
	// abbreviation. ok is false when the name is unknown.
	FindLawIDByName(name string) (id string, ok bool)

	// FindLawIDByNumber resolves a promulgation number such as
	// 明治二十九年法律第八十九号. ok is false when the number cannot be
	// parsed or matches no catalogued law.
	FindLawIDByNumber(number string) (id string, ok bool)

	// ValidateArticleNumber reports whether article n plausibly exists in
	// the law. Unknown laws fall back to a permissive cap.
	ValidateArticleNumber(lawID string, n int) bool
}

// LawInfo is one catalogue entry.
type LawInfo struct {
	ID         string   `yaml:"id"`
	Title      string   `yaml:"title"`
	Aliases    []string `yaml:"aliases,omitempty"`
	MaxArticle int      `yaml:"max_article,omitempty"`
}

// defaultMaxArticle caps validation for laws without catalogue metadata.
const defaultMaxArticle = 1000

var eraCode = map[string]int{
	"明治": 1,
	"大正": 2,
	"昭和": 3,
	"平成": 4,
	"令和": 5,
}

var typeCode = map[string]string{
	"法律":    "AC",
	"政令":    "CO",
	"勅令":    "IO",
	"太政官布告": "DT",
	"内閣府令":  "M1",
	"省令":    "M2",
	"規則":    "RL",
}

var lawNumberRe = regexp.MustCompile(
	`(明治|大正|昭和|平成|令和)([0-9一二三四五六七八九十百千]+|元)年` +
		`(法律|政令|勅令|太政官布告|内閣府令|省令|規則)第([0-9一二三四五六七八九十百千]+)号`)

// ParseLawNumber converts a promulgation number into its canonical ID.
func ParseLawNumber(number string) (string, error) {
	m := lawNumberRe.FindStringSubmatch(number)
	if m == nil {
		return "", fmt.Errorf("lawid: %q is not a law number", number)
	}

	era := eraCode[m[1]]

	year := 1
	if m[2] != "元" {
		n, ok := kansuji.ParseInt(m[2])
		if !ok {
			return "", fmt.Errorf("lawid: unparseable year in %q", number)
		}
		year = n
	}
	if year < 1 || year > 99 {
		return "", fmt.Errorf("lawid: year %d out of range in %q", year, number)
	}

	serial, ok := kansuji.ParseInt(m[4])
	if !ok {
		return "", fmt.Errorf("lawid: unparseable serial in %q", number)
	}

	return fmt.Sprintf("%d%02d%s%010d", era, year, typeCode[m[3]], serial), nil
}

// Catalogue is the built-in Resolver. It merges an optional YAML catalogue
// over the compiled-in fallback table and is read-only after construction.
type Catalogue struct {
	byName map[string]string
	byID   map[string]*LawInfo
}

// NewCatalogue returns a catalogue holding only the fallback table.
func NewCatalogue() *Catalogue {
	c := &Catalogue{
		byName: make(map[string]string),
		byID:   make(map[string]*LawInfo),
	}
	for i := range fallbackLaws {
		c.add(&fallbackLaws[i])
	}
	return c
}

// LoadCatalogue reads a YAML catalogue and merges it over the fallback
// table. Entries with an ID already present replace the fallback entry.
func LoadCatalogue(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lawid: read catalogue: %w", err)
	}

	var file struct {
		Laws []LawInfo `yaml:"laws"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("lawid: parse catalogue %s: %w", path, err)
	}

	c := NewCatalogue()
	for i := range file.Laws {
		l := &file.Laws[i]
		if l.ID == "" || l.Title == "" {
			return nil, fmt.Errorf("lawid: catalogue %s entry %d: id and title are required", path, i)
		}
		c.add(l)
	}
	return c, nil
}

func (c *Catalogue) add(l *LawInfo) {
	c.byID[l.ID] = l
	c.byName[l.Title] = l.ID
	for _, a := range l.Aliases {
		c.byName[a] = l.ID
	}
}

// FindLawIDByName implements Resolver.
func (c *Catalogue) FindLawIDByName(name string) (string, bool) {
	id, ok := c.byName[name]
	return id, ok
}

// FindLawIDByNumber implements Resolver. A parseable number resolves even
// when the law is not catalogued: the number alone determines the ID.
func (c *Catalogue) FindLawIDByNumber(number string) (string, bool) {
	id, err := ParseLawNumber(number)
	if err != nil {
		return "", false
	}
	return id, true
}

// ValidateArticleNumber implements Resolver.
func (c *Catalogue) ValidateArticleNumber(lawID string, n int) bool {
	if n < 1 {
		return false
	}
	if l, ok := c.byID[lawID]; ok && l.MaxArticle > 0 {
		return n <= l.MaxArticle
	}
	return n <= defaultMaxArticle
}

// Info returns the catalogue entry for an ID, if present.
func (c *Catalogue) Info(lawID string) (*LawInfo, bool) {
	l, ok := c.byID[lawID]
	return l, ok
}

// Title returns the catalogued title for an ID, or "" when unknown.
func (c *Catalogue) Title(lawID string) string {
	if l, ok := c.byID[lawID]; ok {
		return l.Title
	}
	return ""
}

// Len reports the number of catalogued laws.
func (c *Catalogue) Len() int {
	return len(c.byID)
}

// FormatID is a helper for building IDs in tests and tools.
func FormatID(era, year int, lawType string, serial int) string {
	code, ok := typeCode[lawType]
	if !ok {
		code = "AC"
	}
	return strconv.Itoa(era) + fmt.Sprintf("%02d", year) + code + fmt.Sprintf("%010d", serial)
}

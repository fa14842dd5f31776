// Package detect runs the full reference pipeline: normalization, pattern
// matching, contextual and relative resolution, negative filtering,
// deduplication, optional LLM disambiguation and range expansion.
package detect

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/kasumigaseki/refmap/pkg/dedupe"
	"github.com/kasumigaseki/refmap/pkg/jptext"
	"github.com/kasumigaseki/refmap/pkg/kansuji"
	"github.com/kasumigaseki/refmap/pkg/lawid"
	"github.com/kasumigaseki/refmap/pkg/llm"
	"github.com/kasumigaseki/refmap/pkg/negative"
	"github.com/kasumigaseki/refmap/pkg/pattern"
	"github.com/kasumigaseki/refmap/pkg/ref"
	"github.com/kasumigaseki/refmap/pkg/relative"
	"github.com/kasumigaseki/refmap/pkg/tracker"
)

// Config tunes the pipeline. The zero value selects the defaults.
type Config struct {
	// NegativeWindow is the rune radius for the negative filter.
	NegativeWindow int

	// LLMWindow is the rune radius of context sent per disambiguation.
	LLMWindow int

	// LLMMaxRunes disables LLM calls for documents larger than this.
	LLMMaxRunes int

	// ContextUpdateThreshold gates which resolutions may advance the
	// mention ring.
	ContextUpdateThreshold float64

	// MaxExpand bounds how many references a single range may expand
	// into. Ranges beyond it keep only the range reference.
	MaxExpand int

	// Workers sizes the ScanAll pool.
	Workers int
}

func (c *Config) fill() {
	if c.NegativeWindow <= 0 {
		c.NegativeWindow = negative.DefaultWindow
	}
	if c.LLMWindow <= 0 {
		c.LLMWindow = 50
	}
	if c.LLMMaxRunes <= 0 {
		c.LLMMaxRunes = llm.DefaultMaxRunes
	}
	if c.ContextUpdateThreshold <= 0 {
		c.ContextUpdateThreshold = ref.ThresholdContextUpdate
	}
	if c.MaxExpand <= 0 {
		c.MaxExpand = 100
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
}

// Detector is safe for concurrent use once constructed.
type Detector struct {
	lib    *pattern.Library
	laws   lawid.Resolver
	filter *negative.Filter
	disamb *llm.Disambiguator
	cfg    Config
	log    zerolog.Logger
}

// NewDetector builds a detector over the built-in rule table. laws may be
// nil; every lookup then misses and confidence degrades accordingly.
func NewDetector(laws lawid.Resolver, cfg Config) *Detector {
	cfg.fill()
	return &Detector{
		lib:    pattern.NewLibrary(),
		laws:   laws,
		filter: &negative.Filter{Window: cfg.NegativeWindow},
		cfg:    cfg,
		log:    zerolog.Nop(),
	}
}

// SetLibrary swaps in a library with overlay rules. Not safe once Detect
// is being called.
func (d *Detector) SetLibrary(lib *pattern.Library) { d.lib = lib }

// SetDisambiguator enables the optional LLM pass.
func (d *Detector) SetDisambiguator(dis *llm.Disambiguator) { d.disamb = dis }

// SetLogger attaches a logger; the default discards everything.
func (d *Detector) SetLogger(log zerolog.Logger) { d.log = log }

// Detect finds and resolves every reference in text. seed carries the
// reading position (host law, current article and paragraph); nil means an
// unknown host, which leaves internal and relative references unresolved
// but still detected.
func (d *Detector) Detect(ctx context.Context, text string, seed *tracker.Context) ([]ref.Reference, error) {
	if text == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	norm := jptext.Normalize(text)

	work := tracker.New("", 0)
	if seed != nil {
		work = seed.Clone()
	}
	d.recordDefinitions(norm, work)

	cands := d.lib.Find(norm)
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Span.Start != cands[j].Span.Start {
			return cands[i].Span.Start < cands[j].Span.Start
		}
		return cands[i].Span.End > cands[j].Span.End
	})

	var refs []ref.Reference
	for i := range cands {
		if r, ok := d.resolve(&cands[i], work); ok {
			refs = append(refs, r)
		}
	}

	refs = d.filter.Filter(norm, refs)
	refs = dedupe.Dedupe(refs)

	if d.disamb != nil {
		refs = d.disambiguate(ctx, norm, refs, work)
	}

	refs = d.expand(refs)

	d.log.Debug().Int("candidates", len(cands)).Int("references", len(refs)).Msg("detect complete")
	return refs, nil
}

// recordDefinitions registers alias introductions before resolution so a
// later 新法第二条 can use them.
func (d *Detector) recordDefinitions(norm string, work *tracker.Context) {
	for _, def := range tracker.DetectDefinitions(norm) {
		id := d.lookupName(def.LawName)
		if id == "" {
			continue
		}
		work.RecordDefinition(def.Alias, id, def.Start)
		work.NoteLaw(id, def.LawName, def.Start)
	}
}

func (d *Detector) lookupName(name string) string {
	if d.laws == nil || name == "" {
		return ""
	}
	if id, ok := d.laws.FindLawIDByName(name); ok {
		return id
	}
	return ""
}

// resolve turns one candidate into a reference. ok is false when the
// candidate should be dropped.
func (d *Detector) resolve(c *pattern.Candidate, work *tracker.Context) (ref.Reference, bool) {
	r := ref.Reference{
		Type:       c.Type,
		Text:       c.Text,
		Span:       c.Span,
		Confidence: c.Confidence,
		Method:     ref.MethodPattern,
	}

	switch c.Type {
	case ref.TypeStructural:
		n, ok := kansuji.ParseInt(c.Capture.Number)
		if !ok {
			return r, false
		}
		r.Detail = ref.StructuralDetail{Unit: c.Capture.Unit, Number: n}
		return r, true

	case ref.TypeExternal:
		return d.resolveExternal(c, work, r)

	case ref.TypeRelative:
		return d.resolveRelative(c, work, r)

	case ref.TypeContextual:
		return d.resolveContextual(c, work, r)

	case ref.TypeDefined:
		return d.resolveDefined(c, work, r)

	case ref.TypeRange:
		return d.resolveRange(c, work, r)

	case ref.TypeApplication:
		r.Detail = ref.ApplicationDetail{Kind: c.Capture.ApplicationKind}
		return d.fillInternal(c, work, r)

	case ref.TypeConditional:
		return d.fillInternal(c, work, r)

	default: // internal, incl. multi-article lists
		if len(c.Capture.Articles) >= 2 {
			r.Detail = ref.MultiDetail{Articles: c.Capture.Articles}
		}
		return d.fillInternal(c, work, r)
	}
}

func (d *Detector) resolveExternal(c *pattern.Candidate, work *tracker.Context, r ref.Reference) (ref.Reference, bool) {
	r.TargetLaw = c.Capture.LawName

	switch {
	case c.Capture.LawNumber != "":
		if d.laws != nil {
			if id, ok := d.laws.FindLawIDByNumber(c.Capture.LawNumber); ok {
				r.TargetLawID = id
				r.Confidence = ref.ConfidenceLawNumber
				r.Method = ref.MethodLawNumber
			}
		}
		if r.TargetLawID == "" {
			if id := d.lookupName(c.Capture.LawName); id != "" {
				r.TargetLawID = id
				r.Confidence = ref.ConfidenceDictionary
				r.Method = ref.MethodDictionary
			} else {
				// Number present but unparseable and the name is
				// unknown: keep the citation, degraded.
				r.Confidence = ref.ConfidenceBasic
			}
		}
	default:
		if id := d.lookupName(c.Capture.LawName); id != "" {
			r.TargetLawID = id
			r.Confidence = ref.ConfidenceDictionary
			r.Method = ref.MethodDictionary
		} else if c.Capture.Suspicious {
			// A descriptive fragment with no dictionary backing is
			// prose, not a citation.
			return r, false
		} else {
			r.Confidence = ref.ConfidenceBasic
		}
	}

	if !d.fillTarget(&r, c, r.TargetLawID) {
		return r, false
	}

	if r.TargetLawID != "" && r.Confidence >= d.cfg.ContextUpdateThreshold {
		work.NoteLaw(r.TargetLawID, c.Capture.LawName, c.Span.Start)
	}
	return r, true
}

func (d *Detector) resolveRelative(c *pattern.Candidate, work *tracker.Context, r ref.Reference) (ref.Reference, bool) {
	res := relative.Resolve(c.Text, work)
	r.Method = ref.MethodRelative
	r.Confidence = res.Confidence
	r.TargetLawID = res.LawID
	r.TargetArticle = res.ArticleDisplay
	r.TargetParagraph = res.Paragraph
	r.TargetItem = res.Item
	r.Detail = ref.RelativeDetail{
		Resolved: res.Err == "",
		Error:    res.Err,
		Note:     res.Note,
	}

	// A confident resolution moves the reading position; the next relative
	// in the chain resolves against it (前条…同条第二項…).
	if res.Err == "" && res.Confidence >= d.cfg.ContextUpdateThreshold {
		if res.Article > 0 {
			work.Article = res.Article
		}
		if res.Paragraph > 0 {
			work.Paragraph = res.Paragraph
		}
		if res.Item != "" {
			work.Item = res.Item
		}
	}
	return r, true
}

func (d *Detector) resolveContextual(c *pattern.Candidate, work *tracker.Context, r ref.Reference) (ref.Reference, bool) {
	alias := c.Capture.Alias

	// A quoted name may be a real statute name.
	if id := d.lookupName(alias); id != "" {
		r.TargetLawID = id
		r.TargetLaw = alias
		r.Confidence = ref.ConfidenceDictionary
		r.Method = ref.MethodDictionary
		return d.frameContextual(c, r)
	}
	if id, ok := work.ResolveDefinition(alias); ok {
		r.TargetLawID = id
		r.TargetLaw = alias
		r.Confidence = ref.ConfidenceRelativeHigh
		r.Method = ref.MethodDefinition
		return d.frameContextual(c, r)
	}
	if alias == "同法" || alias == "当該法律" || alias == "当該法" {
		if last, ok := work.LastLaw(); ok {
			r.TargetLawID = last.LawID
			r.TargetLaw = last.LawName
			r.Confidence = ref.ConfidenceContextual
			r.Method = ref.MethodContext
			return d.frameContextual(c, r)
		}
	}

	// Unresolvable here; left for the LLM pass. Rules with a base
	// confidence below the ambiguous level keep it.
	r.TargetLaw = alias
	if r.Confidence > ref.ConfidenceAmbiguous {
		r.Confidence = ref.ConfidenceAmbiguous
	}
	return d.frameContextual(c, r)
}

func (d *Detector) frameContextual(c *pattern.Candidate, r ref.Reference) (ref.Reference, bool) {
	if c.Capture.Article == "" {
		return r, true
	}
	ok := d.setArticle(&r, c, r.TargetLawID)
	return r, ok
}

func (d *Detector) resolveDefined(c *pattern.Candidate, work *tracker.Context, r ref.Reference) (ref.Reference, bool) {
	if id, ok := work.ResolveDefinition(c.Capture.Alias); ok {
		r.TargetLawID = id
		r.TargetLaw = c.Capture.Alias
		r.Confidence = ref.ConfidenceRelativeHigh
		r.Method = ref.MethodDefinition
	} else {
		r.TargetLaw = c.Capture.Alias
		r.Confidence = ref.ConfidenceAmbiguous
	}
	if !d.fillTarget(&r, c, r.TargetLawID) {
		return r, false
	}
	return r, true
}

func (d *Detector) resolveRange(c *pattern.Candidate, work *tracker.Context, r ref.Reference) (ref.Reference, bool) {
	detail := ref.RangeDetail{}
	switch {
	case c.Capture.Article != "":
		detail.Unit = "article"
		detail.Start, detail.End = c.Capture.Article, c.Capture.ArticleEnd
	case c.Capture.Paragraph != "":
		detail.Unit = "paragraph"
		detail.Start, detail.End = c.Capture.Paragraph, c.Capture.ParagraphEnd
	default:
		detail.Unit = "item"
		detail.Start, detail.End = c.Capture.Item, c.Capture.ItemEnd
	}

	start, end, ok := rangeValues(detail.Unit, detail.Start, detail.End)
	if !ok || end < start {
		return r, false
	}
	detail.StartValue, detail.EndValue = start, end

	r.TargetLawID = work.LawID
	r.TargetArticle = detail.Start
	r.Detail = detail
	return r, true
}

// rangeValues parses range endpoints; iroha items use their sequence
// position.
func rangeValues(unit, start, end string) (int, int, bool) {
	if unit == "item" {
		if s, ok := kansuji.IrohaToInt(start); ok {
			e, ok := kansuji.IrohaToInt(end)
			if !ok {
				return 0, 0, false
			}
			return s, e, true
		}
	}
	s, ok := kansuji.ParseInt(firstArticleComponent(start))
	if !ok {
		return 0, 0, false
	}
	e, ok := kansuji.ParseInt(firstArticleComponent(end))
	if !ok {
		return 0, 0, false
	}
	return s, e, true
}

// fillInternal resolves a host-law citation (bare article, conditional,
// application, multi-article list).
func (d *Detector) fillInternal(c *pattern.Candidate, work *tracker.Context, r ref.Reference) (ref.Reference, bool) {
	r.TargetLawID = work.LawID
	if !d.fillTarget(&r, c, work.LawID) {
		return r, false
	}
	return r, true
}

// fillTarget copies the article/paragraph/item captures and validates the
// article number when the target law is known. Explicit validation failure
// drops the candidate.
func (d *Detector) fillTarget(r *ref.Reference, c *pattern.Candidate, lawID string) bool {
	if c.Capture.Article != "" {
		if !d.setArticle(r, c, lawID) {
			return false
		}
	}
	if c.Capture.Paragraph != "" {
		if n, ok := kansuji.ParseInt(c.Capture.Paragraph); ok {
			r.TargetParagraph = n
		}
	}
	if c.Capture.Item != "" {
		r.TargetItem = c.Capture.Item
	}
	return true
}

func (d *Detector) setArticle(r *ref.Reference, c *pattern.Candidate, lawID string) bool {
	r.TargetArticle = c.Capture.Article
	a, ok := kansuji.ToArticleNumber(c.Capture.Article)
	if !ok {
		return false
	}
	if d.laws != nil && lawID != "" {
		if !d.laws.ValidateArticleNumber(lawID, kansuji.Main(a)) {
			return false
		}
	}
	return true
}

// firstArticleComponent strips a branch suffix: 三の二 validates as 3.
func firstArticleComponent(s string) string {
	for i, r := range s {
		if r == 'の' {
			return s[:i]
		}
	}
	return s
}

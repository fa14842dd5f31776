package ref

// Stats holds aggregate counts for one scan's reference list.
type Stats struct {
	Total         int            `json:"total"`
	ByType        map[string]int `json:"by_type"`
	ByMethod      map[string]int `json:"by_method"`
	Resolved      int            `json:"resolved"`   // references with a target law ID
	Expanded      int            `json:"expanded"`   // synthesized by range expansion
	UniqueTargets int            `json:"unique_targets"`
}

// CalculateStats calculates statistics for a set of references.
func CalculateStats(refs []Reference) Stats {
	stats := Stats{
		Total:    len(refs),
		ByType:   make(map[string]int),
		ByMethod: make(map[string]int),
	}

	targets := make(map[string]bool)
	for i := range refs {
		r := &refs[i]
		stats.ByType[string(r.Type)]++
		stats.ByMethod[string(r.Method)]++
		if r.TargetLawID != "" {
			stats.Resolved++
		}
		if r.IsExpanded() {
			stats.Expanded++
		}
		key := r.TargetLawID + "#" + r.TargetArticle
		if key != "#" {
			targets[key] = true
		}
	}
	stats.UniqueTargets = len(targets)

	return stats
}

// Lookup provides indexed access to a scan's references.
type Lookup struct {
	all       []Reference
	byType    map[Type][]*Reference
	byArticle map[string][]*Reference
}

// NewLookup creates a lookup from a slice of references.
func NewLookup(refs []Reference) *Lookup {
	lookup := &Lookup{
		all:       refs,
		byType:    make(map[Type][]*Reference),
		byArticle: make(map[string][]*Reference),
	}

	for i := range refs {
		r := &refs[i]
		lookup.byType[r.Type] = append(lookup.byType[r.Type], r)
		if r.TargetArticle != "" {
			lookup.byArticle[r.TargetArticle] = append(lookup.byArticle[r.TargetArticle], r)
		}
	}

	return lookup
}

// GetByType returns all references of a specific type.
func (l *Lookup) GetByType(t Type) []*Reference {
	return l.byType[t]
}

// FindReferencesTo finds all references targeting a specific article display
// string (e.g. "第90条").
func (l *Lookup) FindReferencesTo(article string) []*Reference {
	return l.byArticle[article]
}

// All returns all references.
func (l *Lookup) All() []Reference {
	return l.all
}

// Count returns the total number of references.
func (l *Lookup) Count() int {
	return len(l.all)
}

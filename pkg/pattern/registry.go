package pattern

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/fsnotify.v1"
	"gopkg.in/yaml.v3"

	"github.com/kasumigaseki/refmap/pkg/ref"
)

// RuleConfig is the YAML form of an overlay rule. Capture groups are named
// inside the pattern itself ((?P<article>...) and friends), matching the
// built-in table's conventions.
type RuleConfig struct {
	Name           string  `yaml:"name"`
	Category       string  `yaml:"category"`
	Type           string  `yaml:"type"`
	Pattern        string  `yaml:"pattern"`
	BaseConfidence float64 `yaml:"base_confidence"`
}

// RuleFile is one YAML overlay file holding a list of rules.
type RuleFile struct {
	Rules []RuleConfig `yaml:"rules"`
}

var validCategories = map[string]bool{
	string(CategoryStructural): true, string(CategoryBasic): true,
	string(CategoryImplicit): true, string(CategoryCompound): true,
	string(CategoryRange): true, string(CategoryApplication): true,
	string(CategoryMultiTarget): true, string(CategoryContextual): true,
}

var validTypes = map[string]bool{
	string(ref.TypeInternal): true, string(ref.TypeExternal): true,
	string(ref.TypeRelative): true, string(ref.TypeRange): true,
	string(ref.TypeStructural): true, string(ref.TypeApplication): true,
	string(ref.TypeContextual): true, string(ref.TypeDefined): true,
	string(ref.TypeConditional): true,
}

// Validate checks that the config has all required fields and sane values.
func (rc *RuleConfig) Validate() error {
	if rc.Name == "" {
		return fmt.Errorf("rule name is required")
	}
	if rc.Pattern == "" {
		return fmt.Errorf("rule %q: pattern is required", rc.Name)
	}
	if !validCategories[rc.Category] {
		return fmt.Errorf("rule %q: unknown category %q", rc.Name, rc.Category)
	}
	if !validTypes[rc.Type] {
		return fmt.Errorf("rule %q: unknown type %q", rc.Name, rc.Type)
	}
	if rc.BaseConfidence < 0 || rc.BaseConfidence > 1 {
		return fmt.Errorf("rule %q: base_confidence %v outside [0,1]", rc.Name, rc.BaseConfidence)
	}
	return nil
}

// rule compiles the config into a Rule.
func (rc *RuleConfig) rule() (*Rule, error) {
	r := &Rule{
		Name:           rc.Name,
		Category:       Category(rc.Category),
		Type:           ref.Type(rc.Type),
		Pattern:        rc.Pattern,
		BaseConfidence: rc.BaseConfidence,
	}
	if err := r.Compile(); err != nil {
		return nil, err
	}
	return r, nil
}

// Registry manages overlay rules loaded from a directory of YAML files.
// Built-in rules always come first; overlays append in file order and can
// be reloaded, optionally driven by a filesystem watch.
type Registry struct {
	mu       sync.RWMutex
	overlays map[string]*Rule // by rule name
	order    []string
	dir      string
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	onChange func(event string, name string)
}

// NewRegistry creates an empty overlay registry.
func NewRegistry() *Registry {
	return &Registry{overlays: make(map[string]*Rule)}
}

// NewRegistryWithDirectory creates a registry and loads every overlay file
// in the directory.
func NewRegistryWithDirectory(dir string) (*Registry, error) {
	r := NewRegistry()
	r.dir = dir
	if err := r.LoadDirectory(dir); err != nil {
		return nil, err
	}
	return r, nil
}

// SetOnChange installs a callback invoked after watch-driven reloads.
func (r *Registry) SetOnChange(fn func(event string, name string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// Register adds or replaces one overlay rule.
func (r *Registry) Register(rc RuleConfig) error {
	if err := rc.Validate(); err != nil {
		return fmt.Errorf("invalid rule: %w", err)
	}
	rule, err := rc.rule()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.overlays[rule.Name]; !exists {
		r.order = append(r.order, rule.Name)
	}
	r.overlays[rule.Name] = rule
	return nil
}

// Unregister removes an overlay rule by name.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.overlays[name]; !ok {
		return fmt.Errorf("rule %q not found", name)
	}
	delete(r.overlays, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// LoadFile loads a single overlay YAML file.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading rule file: %w", err)
	}

	var file RuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing rule file %s: %w", path, err)
	}

	for _, rc := range file.Rules {
		if err := r.Register(rc); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// LoadDirectory loads every .yaml/.yml file in a directory, in name order.
func (r *Registry) LoadDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading rule directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if err := r.LoadFile(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

// Reload clears the overlays and reloads them from the configured directory.
func (r *Registry) Reload() error {
	if r.dir == "" {
		return fmt.Errorf("no rule directory configured")
	}

	r.mu.Lock()
	r.overlays = make(map[string]*Rule)
	r.order = nil
	r.mu.Unlock()

	return r.LoadDirectory(r.dir)
}

// Rules returns the overlay rules in registration order.
func (r *Registry) Rules() []*Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Rule, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.overlays[name])
	}
	return out
}

// Library builds a pattern library of the built-in table plus the overlays.
func (r *Registry) Library() *Library {
	lib := NewLibrary()
	for _, rule := range r.Rules() {
		lib.rules = append(lib.rules, rule)
	}
	return lib
}

// Watch starts watching the rule directory and reloads on changes.
func (r *Registry) Watch() error {
	if r.dir == "" {
		return fmt.Errorf("no rule directory configured")
	}
	if r.watcher != nil {
		return fmt.Errorf("already watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(r.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", r.dir, err)
	}

	r.watcher = watcher
	r.stopChan = make(chan struct{})

	go r.watchLoop()
	return nil
}

// StopWatch stops the directory watch.
func (r *Registry) StopWatch() {
	if r.watcher == nil {
		return
	}
	close(r.stopChan)
	r.watcher.Close()
	r.watcher = nil
}

func (r *Registry) watchLoop() {
	for {
		select {
		case <-r.stopChan:
			return
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			ext := strings.ToLower(filepath.Ext(event.Name))
			if ext != ".yaml" && ext != ".yml" {
				continue
			}
			if err := r.Reload(); err != nil {
				continue
			}
			r.mu.RLock()
			fn := r.onChange
			r.mu.RUnlock()
			if fn != nil {
				fn(event.Op.String(), event.Name)
			}
		case _, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

package pattern

import (
	"os"
	"path/filepath"
	"testing"
)

const overlayYAML = `rules:
  - name: fusoku-article
    category: basic
    type: internal
    pattern: 附則第(?P<article>[0-9一二三四五六七八九十百千]+)条
    base_confidence: 0.8
`

func TestRegistryLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte(overlayYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	reg := NewRegistry()
	if err := reg.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(reg.Rules()) != 1 {
		t.Fatalf("got %d overlay rules", len(reg.Rules()))
	}

	lib := reg.Library()
	cands := findByRule(lib.Find("附則第二条の規定"), "fusoku-article")
	if len(cands) != 1 {
		t.Fatalf("overlay rule did not match: %+v", cands)
	}
	if cands[0].Capture.Article != "二" {
		t.Errorf("Article = %q", cands[0].Capture.Article)
	}
}

func TestRegistryOverlaysAppendAfterBuiltins(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register(RuleConfig{
		Name:           "custom",
		Category:       "contextual",
		Type:           "contextual",
		Pattern:        `特別の定め`,
		BaseConfidence: 0.5,
	})
	if err != nil {
		t.Fatal(err)
	}

	rules := reg.Library().Rules()
	builtins := len(NewLibrary().Rules())
	if len(rules) != builtins+1 {
		t.Fatalf("got %d rules, want %d", len(rules), builtins+1)
	}
	if rules[len(rules)-1].Name != "custom" {
		t.Error("overlay rule not appended last")
	}
}

func TestRegistryValidation(t *testing.T) {
	bad := []RuleConfig{
		{Name: "", Category: "basic", Type: "internal", Pattern: "x"},
		{Name: "a", Category: "nope", Type: "internal", Pattern: "x"},
		{Name: "b", Category: "basic", Type: "nope", Pattern: "x"},
		{Name: "c", Category: "basic", Type: "internal", Pattern: ""},
		{Name: "d", Category: "basic", Type: "internal", Pattern: "x", BaseConfidence: 1.5},
		{Name: "e", Category: "basic", Type: "internal", Pattern: "([unclosed"},
	}
	reg := NewRegistry()
	for _, rc := range bad {
		if err := reg.Register(rc); err == nil {
			t.Errorf("rule %+v accepted", rc)
		}
	}
}

func TestRegistryReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte(overlayYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	reg, err := NewRegistryWithDirectory(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(reg.Rules()) != 1 {
		t.Fatalf("got %d rules after load", len(reg.Rules()))
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := reg.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if len(reg.Rules()) != 0 {
		t.Errorf("got %d rules after reload of empty dir", len(reg.Rules()))
	}
}

func TestRegistryUnregister(t *testing.T) {
	reg := NewRegistry()
	rc := RuleConfig{Name: "tmp", Category: "basic", Type: "internal", Pattern: "x", BaseConfidence: 0.5}
	if err := reg.Register(rc); err != nil {
		t.Fatal(err)
	}
	if err := reg.Unregister("tmp"); err != nil {
		t.Fatal(err)
	}
	if err := reg.Unregister("tmp"); err == nil {
		t.Error("double unregister succeeded")
	}
	if len(reg.Rules()) != 0 {
		t.Error("rule still present")
	}
}

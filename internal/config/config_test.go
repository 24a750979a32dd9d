package config

import "testing"

func TestParse_Minimal(t *testing.T) {
	data := []byte("modules:\n  - a.ail\n  - b.ail\n")
	cfg, err := Parse(data, "t.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Modules) != 2 || cfg.Modules[0] != "a.ail" || cfg.Modules[1] != "b.ail" {
		t.Fatalf("unexpected modules: %#v", cfg.Modules)
	}
	if !cfg.ColorEnabled() {
		t.Fatal("expected color to default to enabled")
	}
}

func TestParse_RejectsEmptyModules(t *testing.T) {
	if _, err := Parse([]byte("concurrency: 2\n"), "t.yaml"); err == nil {
		t.Fatal("expected an error for a config with no modules")
	}
}

func TestParse_RejectsNegativeConcurrency(t *testing.T) {
	data := []byte("modules:\n  - a.ail\nconcurrency: -1\n")
	if _, err := Parse(data, "t.yaml"); err == nil {
		t.Fatal("expected an error for negative concurrency")
	}
}

func TestColorEnabled_ExplicitFalse(t *testing.T) {
	data := []byte("modules:\n  - a.ail\ncolor: false\n")
	cfg, err := Parse(data, "t.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ColorEnabled() {
		t.Fatal("expected color disabled when explicitly set false")
	}
}

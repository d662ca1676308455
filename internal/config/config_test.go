package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("Load(missing) = %+v, want defaults", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jpamb.yaml")
	if err := os.WriteFile(path, []byte("step_budget: 42\ndebloat_domain: interval\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StepBudget != 42 || cfg.DebloatDomain != "interval" {
		t.Fatalf("Load override mismatch: %+v", cfg)
	}
	if cfg.WorklistRevisitThreshold != Default().WorklistRevisitThreshold {
		t.Fatalf("unset field should keep default, got %+v", cfg)
	}
}

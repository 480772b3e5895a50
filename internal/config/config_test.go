package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Preset != "argon" {
		t.Errorf("expected preset argon, got %s", cfg.Preset)
	}
	if cfg.StepSize <= 0 {
		t.Error("step size should be positive")
	}
	if cfg.Steps <= 0 {
		t.Error("steps should be positive")
	}
	if cfg.SampleEvery <= 0 {
		t.Error("sample interval should be positive")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("argon-nvt")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Temperature != 120.0 {
		t.Errorf("expected temperature 120, got %f", cfg.Temperature)
	}
	if cfg.DataDir != DefaultDataDir {
		t.Errorf("expected default data dir, got %s", cfg.DataDir)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) == 0 {
		t.Error("expected at least one preset")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Integrator = "verlet"
	cfg.Steps = 123
	cfg.Seed = 42

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Integrator != "verlet" || loaded.Steps != 123 || loaded.Seed != 42 {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

package storage_test

import (
	"testing"

	"github.com/san-kum/moldyn/internal/experiment"
	"github.com/san-kum/moldyn/internal/storage"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := storage.New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	frames := []experiment.Frame{
		{Time: 0, Kinetic: 1.5, Potential: -2.25, Temperature: 120.5},
		{Time: 0.02, Kinetic: 1.6, Potential: -2.3, Temperature: 128.1},
	}
	meta := storage.RunMetadata{
		Preset:      "argon-nvt",
		Integrator:  "langevin",
		Backend:     "reference",
		Seed:        42,
		StepSize:    0.002,
		Steps:       10,
		Temperature: 120,
		Metrics:     map[string]float64{"temperature": 119.8},
	}

	runID, err := s.Save(meta, frames)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run id")
	}

	loaded, err := s.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ID != runID {
		t.Errorf("id = %s, want %s", loaded.ID, runID)
	}
	if loaded.Preset != "argon-nvt" || loaded.Integrator != "langevin" {
		t.Errorf("metadata mismatch: %+v", loaded)
	}
	if loaded.Metrics["temperature"] != 119.8 {
		t.Errorf("metrics not round-tripped: %v", loaded.Metrics)
	}

	gotFrames, err := s.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames: %v", err)
	}
	if len(gotFrames) != len(frames) {
		t.Fatalf("got %d frames, want %d", len(gotFrames), len(frames))
	}
	for i := range frames {
		if gotFrames[i] != frames[i] {
			t.Errorf("frame %d: got %+v, want %+v", i, gotFrames[i], frames[i])
		}
	}
}

func TestListRuns(t *testing.T) {
	s := storage.New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatalf("list empty store: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	if _, err := s.Save(storage.RunMetadata{Preset: "chain-nve"}, nil); err != nil {
		t.Fatal(err)
	}
	runs, err = s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Preset != "chain-nve" {
		t.Errorf("unexpected listing: %+v", runs)
	}
}

func TestListMissingBaseDir(t *testing.T) {
	s := storage.New("/nonexistent/path/for/sure")
	runs, err := s.List()
	if err != nil {
		t.Fatalf("missing base dir should not error: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestLoadUnknownRun(t *testing.T) {
	s := storage.New(t.TempDir())
	if _, err := s.Load("no_such_run"); err == nil {
		t.Error("expected error loading unknown run")
	}
	if _, err := s.LoadFrames("no_such_run"); err == nil {
		t.Error("expected error loading unknown frames")
	}
}

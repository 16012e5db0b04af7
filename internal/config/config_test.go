package config

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected Default(), got %+v", cfg)
	}
}

func TestWriteThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".impcheck.yaml")
	want := Config{
		WideningThreshold:   7,
		NarrowingIterations: 3,
		DisjunctionBound:    8,
		Color:               ColorNever,
		Engine:              EngineWorklist,
		LogLevel:            "debug",
	}
	if err := Write(path, want); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestLoadFillsPartialFileFromDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".impcheck.yaml")
	if err := Write(path, Config{WideningThreshold: 9}); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.WideningThreshold != 9 {
		t.Fatalf("expected override to stick, got %d", got.WideningThreshold)
	}
	if got.NarrowingIterations != Default().NarrowingIterations {
		t.Fatalf("expected omitted field to fall back to default")
	}
}

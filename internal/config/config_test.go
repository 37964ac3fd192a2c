package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Concurrency != 4 {
		t.Errorf("concurrency = %d, want 4", cfg.Concurrency)
	}
	if cfg.Selection.MinSegment != 5.0 || cfg.Selection.MaxSegment != 25.0 {
		t.Errorf("segment bounds = (%v, %v), want (5, 25)",
			cfg.Selection.MinSegment, cfg.Selection.MaxSegment)
	}
	if cfg.Selection.MinConfidence != 0.3 {
		t.Errorf("min confidence = %v, want 0.3", cfg.Selection.MinConfidence)
	}
	if cfg.FFmpeg.SceneThreshold != 0.3 {
		t.Errorf("scene threshold = %v, want 0.3", cfg.FFmpeg.SceneThreshold)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skyforge.yaml")
	content := []byte(`
concurrency: 2
selection:
  min_segment: 3.0
  max_segment: 15.0
ffmpeg:
  preset: slow
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Concurrency != 2 {
		t.Errorf("concurrency = %d, want 2", cfg.Concurrency)
	}
	if cfg.Selection.MinSegment != 3.0 || cfg.Selection.MaxSegment != 15.0 {
		t.Errorf("segment bounds = (%v, %v), want (3, 15)",
			cfg.Selection.MinSegment, cfg.Selection.MaxSegment)
	}
	if cfg.FFmpeg.Preset != "slow" {
		t.Errorf("preset = %q, want slow", cfg.FFmpeg.Preset)
	}
	// Untouched keys keep their defaults
	if cfg.FFmpeg.CRF != 18 {
		t.Errorf("crf = %d, want 18", cfg.FFmpeg.CRF)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skyforge.yaml")

	cfg, _ := Load(path)
	cfg.Selection.BlurThreshold = 120.0
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Selection.BlurThreshold != 120.0 {
		t.Errorf("blur threshold = %v, want 120", loaded.Selection.BlurThreshold)
	}
}

func TestConfigContext(t *testing.T) {
	cfg := defaultConfig()
	ctx := WithConfig(context.Background(), cfg)

	if got := FromContext(ctx); got != cfg {
		t.Error("config from context does not match stored config")
	}
	if got := FromContext(context.Background()); got == nil {
		t.Error("missing config should fall back to defaults, not nil")
	}
}

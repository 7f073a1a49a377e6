package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"alpha above one", func(c *Config) { c.Engine.GlobalAlpha = 1.5 }},
		{"negative alpha", func(c *Config) { c.Engine.GlobalAlpha = -0.1 }},
		{"zero line width", func(c *Config) { c.Engine.LineWidth = 0 }},
		{"zero velocity scale", func(c *Config) { c.Engine.VelocityScale = 0 }},
		{"zero max age", func(c *Config) { c.Engine.MaxAge = 0 }},
		{"zero particle count", func(c *Config) { c.Engine.ParticleCount = 0 }},
		{"negative frame interval", func(c *Config) { c.Engine.FrameIntervalMs = -1 }},
		{"unknown scale name", func(c *Config) { c.Engine.ScaleName = "plasma" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted an invalid config")
			}
		})
	}
}

func TestScaleResolution(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine.ScaleName = "mono"
	if len(cfg.Scale()) != 1 {
		t.Errorf("named scale not resolved, got %v", cfg.Scale())
	}

	cfg.Engine.ColorScale = []string{"#111111", "#222222"}
	if got := cfg.Scale(); len(got) != 2 || got[0] != "#111111" {
		t.Errorf("explicit color list did not win, got %v", got)
	}

	cfg = DefaultConfig()
	cfg.Engine.ScaleName = ""
	if len(cfg.Scale()) == 0 {
		t.Error("empty scale name did not fall back to the default")
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Source = "fields/demo.json"
	cfg.Seed = 42
	cfg.Engine.ParticleCount = 1234
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Source != "fields/demo.json" || got.Seed != 42 {
		t.Errorf("source/seed = %q/%d", got.Source, got.Seed)
	}
	if got.Engine.ParticleCount != 1234 {
		t.Errorf("particle_count = %d, want 1234", got.Engine.ParticleCount)
	}
	if got.Engine.MaxAge != DefaultMaxAge {
		t.Errorf("max_age = %d, want %d", got.Engine.MaxAge, DefaultMaxAge)
	}
}

func TestLoadScalarColorScale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := strings.Join([]string{
		"engine:",
		"  color_scale: \"#abcdef\"",
	}, "\n")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := cfg.Scale()
	if len(got) != 1 || got[0] != "#abcdef" {
		t.Errorf("scale = %v, want the single configured color", got)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := "engine:\n  max_age: -3\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load accepted an invalid config")
	}
}

func TestPresets(t *testing.T) {
	for _, name := range ListPresets() {
		p := GetPreset(name)
		if p == nil {
			t.Fatalf("preset %q listed but missing", name)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}
	if GetPreset("no-such-preset") != nil {
		t.Error("unknown preset resolved")
	}
}

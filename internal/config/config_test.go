package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"mayajiva/internal/scape"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadFromFileMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mayajiva.yaml")
	content := `
logging:
  level: debug
landscape:
  preset: fault
  anomalies:
    - type: dipole
      x: 300
      y: 400
      strength: 12
      depth: 30
bug:
  goal_heading: 1.5
  heading0: 0.25
  compass:
    contrast: 0.3
run:
  runs: 8
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Logging.Level != "debug" || cfg.Landscape.Preset != "fault" {
		t.Fatalf("unexpected logging/landscape: %+v %+v", cfg.Logging, cfg.Landscape)
	}
	if len(cfg.Landscape.Anomalies) != 1 || cfg.Landscape.Anomalies[0].Depth != 30 {
		t.Fatalf("unexpected anomalies: %+v", cfg.Landscape.Anomalies)
	}
	if cfg.Bug.GoalHeading != 1.5 || cfg.Bug.Heading0 == nil || *cfg.Bug.Heading0 != 0.25 {
		t.Fatalf("unexpected bug params: %+v", cfg.Bug)
	}
	if cfg.Bug.Compass.Contrast != 0.3 || cfg.Bug.Compass.Molecules != 1000 {
		t.Fatalf("expected compass defaults to survive partial override: %+v", cfg.Bug.Compass)
	}
	if cfg.Run.Runs != 8 || cfg.Run.DT != DefaultDT || cfg.Run.Workers != DefaultWorkers {
		t.Fatalf("unexpected run config: %+v", cfg.Run)
	}
	if cfg.Bug.Speed != 1 || math.Abs(cfg.Bug.Kappa-2) > 1e-12 {
		t.Fatalf("expected bug defaults to survive: %+v", cfg.Bug)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected missing file error")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("run: [unterminated"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MAYAJIVA_SEED", "1234")
	t.Setenv("MAYAJIVA_LOG_LEVEL", "TRACE")
	t.Setenv("MAYAJIVA_STORE", "sqlite")
	t.Setenv("MAYAJIVA_DB_PATH", "/tmp/x.db")
	t.Setenv("MAYAJIVA_WORKERS", "2")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Bug.Seed != 1234 || cfg.Logging.Level != "trace" {
		t.Fatalf("unexpected overrides: seed=%d level=%s", cfg.Bug.Seed, cfg.Logging.Level)
	}
	if cfg.Store.Kind != "sqlite" || cfg.Store.DBPath != "/tmp/x.db" || cfg.Run.Workers != 2 {
		t.Fatalf("unexpected store/run overrides: %+v %+v", cfg.Store, cfg.Run)
	}
}

func TestEnvOverridesIgnoreMalformedNumbers(t *testing.T) {
	t.Setenv("MAYAJIVA_SEED", "abc")
	t.Setenv("MAYAJIVA_WORKERS", "many")
	cfg := LoadFromEnv()
	if cfg.Bug.Seed != 0 || cfg.Run.Workers != DefaultWorkers {
		t.Fatalf("expected defaults to remain: seed=%d workers=%d", cfg.Bug.Seed, cfg.Run.Workers)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Run.DT = 0 }},
		{"negative duration", func(c *Config) { c.Run.Duration = -1 }},
		{"zero runs", func(c *Config) { c.Run.Runs = 0 }},
		{"zero workers", func(c *Config) { c.Run.Workers = 0 }},
		{"unknown store", func(c *Config) { c.Store.Kind = "postgres" }},
		{"sqlite without path", func(c *Config) { c.Store.Kind = "sqlite"; c.Store.DBPath = "" }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
		{"zero width", func(c *Config) { c.Landscape.Field.Width = 0 }},
		{"negative speed", func(c *Config) { c.Bug.Speed = -1 }},
	}
	for _, tc := range cases {
		cfg := Default()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestValidateUnknownPreset(t *testing.T) {
	cfg := Default()
	cfg.Landscape.Preset = "mystery"
	if err := cfg.Validate(); !errors.Is(err, scape.ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset, got %v", err)
	}
}

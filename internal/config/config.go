// Package config loads mayajiva settings from YAML files and environment
// variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"mayajiva/internal/agent"
	"mayajiva/internal/landscape"
	"mayajiva/internal/logging"
	"mayajiva/internal/scape"
)

const (
	DefaultDuration = 10.0
	DefaultDT       = 0.01
	DefaultRuns     = 20
	DefaultWorkers  = 4
)

type Config struct {
	Logging   LoggingConfig   `json:"logging" yaml:"logging"`
	Store     StoreConfig     `json:"store" yaml:"store"`
	Landscape LandscapeConfig `json:"landscape" yaml:"landscape"`
	Bug       agent.Params    `json:"bug" yaml:"bug"`
	Run       RunConfig       `json:"run" yaml:"run"`
}

type LoggingConfig struct {
	// Level is one of info, debug, trace, warn or error. Debug and trace
	// also write step telemetry under TelemetryDir.
	Level        string `json:"level" yaml:"level"`
	TelemetryDir string `json:"telemetry_dir,omitempty" yaml:"telemetry_dir,omitempty"`
}

type StoreConfig struct {
	Kind         string `json:"kind" yaml:"kind"`
	DBPath       string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	ArtifactsDir string `json:"artifacts_dir,omitempty" yaml:"artifacts_dir,omitempty"`
}

type LandscapeConfig struct {
	Preset    string                  `json:"preset" yaml:"preset"`
	Field     landscape.Config        `json:"field" yaml:"field"`
	Anomalies []landscape.AnomalySpec `json:"anomalies,omitempty" yaml:"anomalies,omitempty"`
}

type RunConfig struct {
	Duration float64 `json:"duration" yaml:"duration"`
	DT       float64 `json:"dt" yaml:"dt"`
	Runs     int     `json:"runs" yaml:"runs"`
	Workers  int     `json:"workers" yaml:"workers"`
}

func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Store: StoreConfig{
			Kind:         "memory",
			DBPath:       "mayajiva.db",
			ArtifactsDir: "runs",
		},
		Landscape: LandscapeConfig{
			Preset: scape.PresetUniform,
			Field:  landscape.DefaultConfig(),
		},
		Bug: agent.DefaultParams(),
		Run: RunConfig{
			Duration: DefaultDuration,
			DT:       DefaultDT,
			Runs:     DefaultRuns,
			Workers:  DefaultWorkers,
		},
	}
}

// Load reads path when it is non-empty, then applies environment
// overrides. Order: defaults -> file -> environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func LoadFromEnv() *Config {
	cfg := Default()
	applyEnvOverrides(cfg)
	return cfg
}

func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Run.Duration <= 0 {
		return fmt.Errorf("run duration must be > 0, got %g", c.Run.Duration)
	}
	if c.Run.DT <= 0 {
		return fmt.Errorf("run dt must be > 0, got %g", c.Run.DT)
	}
	if c.Run.Runs < 1 {
		return fmt.Errorf("run count must be >= 1, got %d", c.Run.Runs)
	}
	if c.Run.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Run.Workers)
	}

	switch c.Store.Kind {
	case "", "memory", "sqlite":
	default:
		return fmt.Errorf("invalid store kind: %s (valid: memory, sqlite)", c.Store.Kind)
	}
	if c.Store.Kind == "sqlite" && c.Store.DBPath == "" {
		return fmt.Errorf("db_path is required for the sqlite store")
	}

	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, warn, error)", c.Logging.Level)
	}

	preset := scape.NormalizePreset(c.Landscape.Preset)
	known := false
	for _, name := range scape.Presets() {
		if name == preset {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: %s", scape.ErrUnknownPreset, c.Landscape.Preset)
	}
	if c.Landscape.Field.Width <= 0 || c.Landscape.Field.Height <= 0 {
		return fmt.Errorf("landscape extent must be positive, got %gx%g", c.Landscape.Field.Width, c.Landscape.Field.Height)
	}

	if err := c.Bug.Validate(); err != nil {
		return fmt.Errorf("bug: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MAYAJIVA_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Bug.Seed = n
		}
	}
	if v := os.Getenv("MAYAJIVA_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("MAYAJIVA_STORE"); v != "" {
		cfg.Store.Kind = strings.ToLower(v)
	}
	if v := os.Getenv("MAYAJIVA_DB_PATH"); v != "" {
		cfg.Store.DBPath = v
	}
	if v := os.Getenv("MAYAJIVA_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Run.Workers = n
		}
	}
}

package main

import (
	"path/filepath"
	"testing"

	"mayajiva/internal/config"
	"mayajiva/internal/stats"
)

func TestExplicitZeroSeedOverridesConfiguredSeed(t *testing.T) {
	t.Setenv("MAYAJIVA_SEED", "1234")
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Bug.Seed != 1234 {
		t.Fatalf("expected env seed, got %d", cfg.Bug.Seed)
	}

	cmd := newRunCmd()
	if err := cmd.ParseFlags([]string{"--seed", "0"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	req := runRequestFrom(cmd, cfg)
	if req.Params.Seed != 0 || req.Seed != 0 {
		t.Fatalf("expected explicit zero seed, got params=%d req=%d", req.Params.Seed, req.Seed)
	}

	cmd = newRunCmd()
	if err := cmd.ParseFlags([]string{"--seed", "77"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if req := runRequestFrom(cmd, cfg); req.Params.Seed != 77 {
		t.Fatalf("expected flag seed 77, got %d", req.Params.Seed)
	}

	cmd = newRunCmd()
	if req := runRequestFrom(cmd, cfg); req.Params.Seed != 1234 {
		t.Fatalf("expected configured seed without flag, got %d", req.Params.Seed)
	}
}

func TestRunCommandZeroSeedDrawsEntropy(t *testing.T) {
	t.Setenv("MAYAJIVA_SEED", "1234")
	artifacts := filepath.Join(t.TempDir(), "runs")
	if _, err := executeCommand(t, "run", "--artifacts-dir", artifacts, "--seed", "0", "--duration", "0.05"); err != nil {
		t.Fatalf("run command: %v", err)
	}
	entries, err := stats.ListRunIndex(artifacts)
	if err != nil || len(entries) != 1 {
		t.Fatalf("list run index: %v %+v", err, entries)
	}
	if entries[0].Seed == 1234 || entries[0].Seed == 0 {
		t.Fatalf("expected an entropy seed, got %d", entries[0].Seed)
	}
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mayajiva/internal/parity"
	"mayajiva/internal/stats"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd := newRootCmd()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunCommandWritesIndexedArtifacts(t *testing.T) {
	artifacts := filepath.Join(t.TempDir(), "runs")
	out, err := executeCommand(t, "run", "--artifacts-dir", artifacts, "--seed", "5", "--duration", "0.2", "--dt", "0.01")
	if err != nil {
		t.Fatalf("run command: %v", err)
	}
	if !strings.Contains(out, "run completed") || !strings.Contains(out, "steps=20") {
		t.Fatalf("unexpected output: %s", out)
	}

	entries, err := stats.ListRunIndex(artifacts)
	if err != nil {
		t.Fatalf("list run index: %v", err)
	}
	if len(entries) != 1 || entries[0].Seed != 5 {
		t.Fatalf("unexpected index: %+v", entries)
	}
	for _, file := range []string{"config.json", "summary.json", "trajectory.csv"} {
		if _, err := os.Stat(filepath.Join(artifacts, entries[0].RunID, file)); err != nil {
			t.Fatalf("expected artifact %s: %v", file, err)
		}
	}
}

func TestRunsAndShowReadPersistedRun(t *testing.T) {
	artifacts := filepath.Join(t.TempDir(), "runs")
	if _, err := executeCommand(t, "run", "--artifacts-dir", artifacts, "--seed", "9", "--duration", "0.1"); err != nil {
		t.Fatalf("run command: %v", err)
	}
	entries, err := stats.ListRunIndex(artifacts)
	if err != nil || len(entries) != 1 {
		t.Fatalf("list run index: %v %+v", err, entries)
	}
	runID := entries[0].RunID

	out, err := executeCommand(t, "runs", "--artifacts-dir", artifacts)
	if err != nil {
		t.Fatalf("runs command: %v", err)
	}
	if !strings.Contains(out, "run_id="+runID) {
		t.Fatalf("runs output missing %s: %s", runID, out)
	}

	out, err = executeCommand(t, "show", runID, "--artifacts-dir", artifacts, "--json")
	if err != nil {
		t.Fatalf("show command: %v", err)
	}
	var shown struct {
		RunID string `json:"run_id"`
		Seed  int64  `json:"seed"`
		Steps int    `json:"steps"`
	}
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("decode show output: %v\n%s", err, out)
	}
	if shown.RunID != runID || shown.Seed != 9 || shown.Steps != 10 {
		t.Fatalf("unexpected show output: %+v", shown)
	}

	out, err = executeCommand(t, "trajectory", "--latest", "--artifacts-dir", artifacts)
	if err != nil {
		t.Fatalf("trajectory command: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 12 {
		t.Fatalf("expected header plus 11 points, got %d lines", len(lines))
	}
}

func TestRunsCommandEmpty(t *testing.T) {
	out, err := executeCommand(t, "runs", "--artifacts-dir", filepath.Join(t.TempDir(), "runs"))
	if err != nil {
		t.Fatalf("runs command: %v", err)
	}
	if !strings.Contains(out, "no runs found") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestExportLatestCopiesArtifacts(t *testing.T) {
	base := t.TempDir()
	artifacts := filepath.Join(base, "runs")
	exports := filepath.Join(base, "exports")
	if _, err := executeCommand(t, "run", "--artifacts-dir", artifacts, "--seed", "3", "--duration", "0.1"); err != nil {
		t.Fatalf("run command: %v", err)
	}
	out, err := executeCommand(t, "export", "--latest", "--artifacts-dir", artifacts, "--out", exports)
	if err != nil {
		t.Fatalf("export command: %v", err)
	}
	if !strings.Contains(out, "exported run_id=") {
		t.Fatalf("unexpected output: %s", out)
	}
	entries, _ := stats.ListRunIndex(artifacts)
	if _, err := os.Stat(filepath.Join(exports, entries[0].RunID, "trajectory.csv")); err != nil {
		t.Fatalf("expected exported trajectory: %v", err)
	}

	if _, err := executeCommand(t, "export", "--artifacts-dir", artifacts); err == nil {
		t.Fatal("expected error without --run-id or --latest")
	}
}

func TestEnsembleCommandReportsRuns(t *testing.T) {
	artifacts := filepath.Join(t.TempDir(), "runs")
	out, err := executeCommand(t, "ensemble", "--artifacts-dir", artifacts, "--runs", "3", "--workers", "2", "--seed", "100", "--duration", "0.1", "--json")
	if err != nil {
		t.Fatalf("ensemble command: %v", err)
	}
	var summary struct {
		BaseSeed int64    `json:"base_seed"`
		RunIDs   []string `json:"run_ids"`
	}
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode ensemble output: %v\n%s", err, out)
	}
	if summary.BaseSeed != 100 || len(summary.RunIDs) != 3 {
		t.Fatalf("unexpected ensemble summary: %+v", summary)
	}
}

func TestSweepCommandRequiresAxes(t *testing.T) {
	artifacts := filepath.Join(t.TempDir(), "runs")
	if _, err := executeCommand(t, "sweep", "--artifacts-dir", artifacts, "--contrasts", "0.1"); err == nil {
		t.Fatal("expected error without --sigma-thetas")
	}
	out, err := executeCommand(t, "sweep", "--artifacts-dir", artifacts,
		"--contrasts", "0.05,0.15", "--sigma-thetas", "0.1", "--runs", "2", "--seed", "7", "--duration", "0.1")
	if err != nil {
		t.Fatalf("sweep command: %v", err)
	}
	if strings.Count(out, "contrast=") != 2 {
		t.Fatalf("expected two cells: %s", out)
	}
}

func TestRunCommandRejectsUnknownPreset(t *testing.T) {
	artifacts := filepath.Join(t.TempDir(), "runs")
	if _, err := executeCommand(t, "run", "--artifacts-dir", artifacts, "--preset", "swamp", "--duration", "0.1"); err == nil {
		t.Fatal("expected unknown preset error")
	}
}

func TestInvalidLogLevelRejected(t *testing.T) {
	if _, err := executeCommand(t, "runs", "--log-level", "loud", "--artifacts-dir", t.TempDir()); err == nil {
		t.Fatal("expected invalid log level error")
	}
}

func TestValidateCommandPassesReferenceFixture(t *testing.T) {
	out, err := executeCommand(t, "validate", "--fixture", filepath.Join("..", "..", defaultFixturePath))
	if err != nil {
		t.Fatalf("validate command: %v\n%s", err, out)
	}
	if !strings.Contains(out, "passed=true") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestDumpReferenceReplaysExactly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.json")
	out, err := executeCommand(t, "dump-reference", "--out", path, "--steps", "100", "--samples", "4", "--heading", "1.0")
	if err != nil {
		t.Fatalf("dump-reference command: %v", err)
	}
	if !strings.Contains(out, "samples=5") {
		t.Fatalf("unexpected output: %s", out)
	}

	fixture, err := parity.LoadFixture(path)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	if fixture.NSteps != 100 || fixture.Params.Heading0 != 1.0 {
		t.Fatalf("unexpected fixture header: %+v", fixture.Params)
	}

	if _, err := executeCommand(t, "validate", "--fixture", path, "--position-tol", "1e-9", "--heading-tol", "1e-9"); err != nil {
		t.Fatalf("validate dumped fixture: %v", err)
	}
}

func TestFieldCommandCSV(t *testing.T) {
	out, err := executeCommand(t, "field", "--preset", "dipole", "--nx", "3", "--ny", "2")
	if err != nil {
		t.Fatalf("field command: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected header plus 6 rows, got %d: %s", len(lines), out)
	}
	if lines[0] != "x,y,direction,intensity,inclination,deviation" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
}

func TestDriveCommandStepsFrames(t *testing.T) {
	out, err := executeCommand(t, "drive", "--seed", "4", "--heading", "0", "--frames", "5", "--every", "1", "--fps", "50")
	if err != nil {
		t.Fatalf("drive command: %v", err)
	}
	if strings.Count(out, "frame=") != 5 {
		t.Fatalf("expected five frame lines: %s", out)
	}
	if !strings.Contains(out, "drive finished frames=5 steps=50 out_of_bounds=false") {
		t.Fatalf("unexpected summary: %s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "version")
	if err != nil {
		t.Fatalf("version command: %v", err)
	}
	if !strings.Contains(out, "mayajivactl version "+version) {
		t.Fatalf("unexpected output: %s", out)
	}
}

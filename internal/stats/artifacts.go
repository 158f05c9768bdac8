package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"mayajiva/internal/agent"
	"mayajiva/internal/landscape"
	"mayajiva/internal/model"
)

const (
	runIndexFile   = "run_index.json"
	configFile     = "config.json"
	summaryFile    = "summary.json"
	trajectoryFile = "trajectory.csv"
	telemetryFile  = "steps.jsonl"
)

var trajectoryHeader = []string{"step", "t", "x", "y", "heading", "estimated_heading", "bump_amplitude"}

// RunConfig is everything needed to reproduce a run.
type RunConfig struct {
	RunID        string                  `json:"run_id"`
	EnsembleID   string                  `json:"ensemble_id,omitempty"`
	Preset       string                  `json:"preset"`
	Field        landscape.Config        `json:"field"`
	Anomalies    []landscape.AnomalySpec `json:"anomalies,omitempty"`
	Bug          agent.Params            `json:"bug"`
	Duration     float64                 `json:"duration"`
	DT           float64                 `json:"dt"`
	Seed         int64                   `json:"seed"`
	CreatedAtUTC string                  `json:"created_at_utc"`
}

type RunArtifacts struct {
	Config     RunConfig               `json:"config"`
	Trajectory []model.TrajectoryPoint `json:"trajectory"`
	Summary    model.RunRecord         `json:"summary"`
}

type RunIndexEntry struct {
	RunID            string  `json:"run_id"`
	Preset           string  `json:"preset"`
	Seed             int64   `json:"seed"`
	Steps            int     `json:"steps"`
	InBounds         bool    `json:"in_bounds"`
	MeanHeadingError float64 `json:"mean_heading_error"`
	Fitness          float64 `json:"fitness"`
	CreatedAtUTC     string  `json:"created_at_utc"`
}

func IndexEntryFor(run model.RunRecord) RunIndexEntry {
	return RunIndexEntry{
		RunID:            run.ID,
		Preset:           run.Landscape,
		Seed:             run.Seed,
		Steps:            run.Steps,
		InBounds:         run.InBounds,
		MeanHeadingError: run.MeanHeadingError,
		Fitness:          run.Fitness,
		CreatedAtUTC:     run.CreatedAtUTC,
	}
}

func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Config.RunID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Config.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, configFile), artifacts.Config); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, summaryFile), artifacts.Summary); err != nil {
		return "", err
	}
	if err := writeTrajectoryFile(filepath.Join(runDir, trajectoryFile), artifacts.Trajectory); err != nil {
		return "", err
	}
	return runDir, nil
}

func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := readRunIndex(baseDir)
	if err != nil {
		return err
	}

	for i := range index {
		if index[i].RunID == entry.RunID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, runIndexFile), index)
		}
	}

	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, runIndexFile), index)
}

// readRunIndex returns the index in file order, which is append order.
func readRunIndex(baseDir string) ([]RunIndexEntry, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, runIndexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return []RunIndexEntry{}, nil
		}
		return nil, err
	}

	var entries []RunIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListRunIndex returns entries newest first.
func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	entries, err := readRunIndex(baseDir)
	if err != nil {
		return nil, err
	}

	type indexedEntry struct {
		entry RunIndexEntry
		idx   int
	}
	indexed := make([]indexedEntry, len(entries))
	for i := range entries {
		indexed[i] = indexedEntry{entry: entries[i], idx: i}
	}
	sort.Slice(indexed, func(i, j int) bool {
		if indexed[i].entry.CreatedAtUTC == indexed[j].entry.CreatedAtUTC {
			// Later appended entries win ties.
			return indexed[i].idx > indexed[j].idx
		}
		return indexed[i].entry.CreatedAtUTC > indexed[j].entry.CreatedAtUTC
	})

	sorted := make([]RunIndexEntry, 0, len(indexed))
	for _, item := range indexed {
		sorted = append(sorted, item.entry)
	}
	return sorted, nil
}

// ExportRunArtifacts copies a run directory to outDir/runID. Step
// telemetry is copied when present.
func ExportRunArtifacts(baseDir, runID, outDir string) (string, error) {
	if runID == "" {
		return "", fmt.Errorf("run id is required")
	}

	src := filepath.Join(baseDir, runID)
	if _, err := os.Stat(src); err != nil {
		return "", err
	}

	dst := filepath.Join(outDir, runID)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", err
	}

	for _, file := range []string{configFile, summaryFile, trajectoryFile} {
		if err := copyFile(filepath.Join(src, file), filepath.Join(dst, file)); err != nil {
			return "", err
		}
	}
	telemetryPath := filepath.Join(src, telemetryFile)
	if _, err := os.Stat(telemetryPath); err == nil {
		if err := copyFile(telemetryPath, filepath.Join(dst, telemetryFile)); err != nil {
			return "", err
		}
	} else if !os.IsNotExist(err) {
		return "", err
	}

	return dst, nil
}

func ReadRunConfig(baseDir, runID string) (RunConfig, bool, error) {
	var cfg RunConfig
	ok, err := readJSON(filepath.Join(baseDir, runID, configFile), &cfg)
	if err != nil || !ok {
		return RunConfig{}, ok, err
	}
	return cfg, true, nil
}

func ReadRunSummary(baseDir, runID string) (model.RunRecord, bool, error) {
	var run model.RunRecord
	ok, err := readJSON(filepath.Join(baseDir, runID, summaryFile), &run)
	if err != nil || !ok {
		return model.RunRecord{}, ok, err
	}
	return run, true, nil
}

func ReadTrajectory(baseDir, runID string) ([]model.TrajectoryPoint, bool, error) {
	file, err := os.Open(filepath.Join(baseDir, runID, trajectoryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer file.Close()

	points, err := ReadTrajectoryCSV(file)
	if err != nil {
		return nil, false, err
	}
	return points, true, nil
}

// WriteTrajectoryCSV writes one row per step with a header.
func WriteTrajectoryCSV(w io.Writer, points []model.TrajectoryPoint) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(trajectoryHeader); err != nil {
		return err
	}
	for _, p := range points {
		if err := writer.Write([]string{
			strconv.Itoa(p.Step),
			formatFloat(p.Time),
			formatFloat(p.X),
			formatFloat(p.Y),
			formatFloat(p.Heading),
			formatFloat(p.EstimatedHeading),
			formatFloat(p.BumpAmplitude),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func ReadTrajectoryCSV(r io.Reader) ([]model.TrajectoryPoint, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return []model.TrajectoryPoint{}, nil
		}
		return nil, err
	}
	if len(header) < len(trajectoryHeader) {
		return nil, fmt.Errorf("trajectory header must have %d columns, got %d", len(trajectoryHeader), len(header))
	}

	points := make([]model.TrajectoryPoint, 0, 256)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		step, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("trajectory step %q: %w", record[0], err)
		}
		values := make([]float64, len(trajectoryHeader)-1)
		for i := range values {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("trajectory %s at step %d: %w", trajectoryHeader[i+1], step, err)
			}
			values[i] = v
		}
		points = append(points, model.TrajectoryPoint{
			Step:             step,
			Time:             values[0],
			X:                values[1],
			Y:                values[2],
			Heading:          values[3],
			EstimatedHeading: values[4],
			BumpAmplitude:    values[5],
		})
	}
	return points, nil
}

func writeTrajectoryFile(path string, points []model.TrajectoryPoint) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteTrajectoryCSV(file, points)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func readJSON(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, err
	}
	return true, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

package stats

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"mayajiva/internal/model"
)

const sweepsDir = "sweeps"

var sweepHeader = []string{"contrast", "sigma_theta", "ensemble_id", "heading_error_mean", "heading_error_std", "distance_mean", "in_bounds_fraction"}

// WriteSweepCSV writes one row per grid cell, contrast-major.
func WriteSweepCSV(w io.Writer, sweep model.SweepRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(sweepHeader); err != nil {
		return err
	}
	for _, cell := range sweep.Cells {
		if err := writer.Write([]string{
			formatFloat(cell.Contrast),
			formatFloat(cell.SigmaTheta),
			cell.EnsembleID,
			formatFloat(cell.HeadingErrorMean),
			formatFloat(cell.HeadingErrorStd),
			formatFloat(cell.DistanceMean),
			strconv.FormatFloat(cell.InBoundsFraction, 'f', 4, 64),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteSweepArtifacts stores sweep.json and grid.csv under
// baseDir/sweeps/<id>.
func WriteSweepArtifacts(baseDir string, sweep model.SweepRecord) (string, error) {
	if sweep.ID == "" {
		return "", fmt.Errorf("sweep id is required")
	}
	dir := sweepPath(baseDir, sweep.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(dir, "sweep.json"), sweep); err != nil {
		return "", err
	}
	file, err := os.Create(filepath.Join(dir, "grid.csv"))
	if err != nil {
		return "", err
	}
	defer file.Close()
	if err := WriteSweepCSV(file, sweep); err != nil {
		return "", err
	}
	return dir, nil
}

func ReadSweep(baseDir, id string) (model.SweepRecord, bool, error) {
	if id == "" {
		return model.SweepRecord{}, false, fmt.Errorf("sweep id is required")
	}
	var sweep model.SweepRecord
	ok, err := readJSON(filepath.Join(sweepPath(baseDir, id), "sweep.json"), &sweep)
	if err != nil || !ok {
		return model.SweepRecord{}, ok, err
	}
	return sweep, true, nil
}

func sweepPath(baseDir, id string) string {
	return filepath.Join(baseDir, sweepsDir, id)
}

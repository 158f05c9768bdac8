package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"mayajiva/internal/model"
)

func TestDecodeRunFixture(t *testing.T) {
	data, err := os.ReadFile(fixturePath("minimal_run_v1.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	run, err := DecodeRun(data)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	if run.ID != "single-42-0f3a9c1e" {
		t.Fatalf("unexpected run id: %s", run.ID)
	}
	if run.Seed != 42 || run.Steps != 200 || !run.InBounds {
		t.Fatalf("unexpected run fields: %+v", run)
	}
}

func TestRunCodecRoundTrip(t *testing.T) {
	input := model.RunRecord{
		VersionedRecord:  CurrentVersion(),
		ID:               "single-7-abcd1234",
		Landscape:        "dipole",
		Seed:             7,
		Steps:            1000,
		MeanHeadingError: 0.25,
	}
	encoded, err := EncodeRun(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeRun(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(input, decoded) {
		t.Fatalf("round trip mismatch: got %+v want %+v", decoded, input)
	}
}

func TestDecodeRunVersionMismatch(t *testing.T) {
	input := model.RunRecord{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion + 1, CodecVersion: CurrentCodecVersion},
		ID:              "single-1-00000000",
	}
	encoded, err := EncodeRun(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	_, err = DecodeRun(encoded)
	if !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got: %v", err)
	}
}

func TestEnsembleCodecVersionMismatch(t *testing.T) {
	input := model.EnsembleRecord{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion + 1},
		ID:              "ensemble-1",
	}
	encoded, err := EncodeEnsemble(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	_, err = DecodeEnsemble(encoded)
	if !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got: %v", err)
	}
}

func TestSweepCodecRoundTrip(t *testing.T) {
	input := model.SweepRecord{
		VersionedRecord: CurrentVersion(),
		ID:              "sweep-1",
		Contrasts:       []float64{0.05, 0.15},
		SigmaThetas:     []float64{0.1},
		RunsPerCell:     4,
		Cells: []model.SweepCell{
			{Contrast: 0.05, SigmaTheta: 0.1, EnsembleID: "ensemble-a", HeadingErrorMean: 0.4},
			{Contrast: 0.15, SigmaTheta: 0.1, EnsembleID: "ensemble-b", HeadingErrorMean: 0.2},
		},
	}
	encoded, err := EncodeSweep(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeSweep(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(input, decoded) {
		t.Fatalf("round trip mismatch: got %+v want %+v", decoded, input)
	}
}

func TestTrajectoryCodecRoundTrip(t *testing.T) {
	input := []model.TrajectoryPoint{
		{Step: 0, Time: 0, X: 500, Y: 100, Heading: 0.5},
		{Step: 1, Time: 0.01, X: 500.01, Y: 100.004, Heading: 0.52, BumpAmplitude: 0.9},
	}
	encoded, err := EncodeTrajectory(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeTrajectory(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(input, decoded) {
		t.Fatalf("round trip mismatch: got %+v want %+v", decoded, input)
	}
}

func TestDecodeRunRejectsMalformed(t *testing.T) {
	if _, err := DecodeRun([]byte("{")); err == nil {
		t.Fatal("expected decode error")
	}
}

func fixturePath(name string) string {
	return filepath.Join("..", "..", "testdata", "fixtures", name)
}

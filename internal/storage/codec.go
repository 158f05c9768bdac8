package storage

import (
	"encoding/json"
	"errors"

	"mayajiva/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

// CurrentVersion is stamped on every record produced by this build.
func CurrentVersion() model.VersionedRecord {
	return model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}

func EncodeRun(r model.RunRecord) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRun(data []byte) (model.RunRecord, error) {
	var run model.RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return model.RunRecord{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return model.RunRecord{}, err
	}
	return run, nil
}

func EncodeEnsemble(e model.EnsembleRecord) ([]byte, error) {
	return json.Marshal(e)
}

func DecodeEnsemble(data []byte) (model.EnsembleRecord, error) {
	var ensemble model.EnsembleRecord
	if err := json.Unmarshal(data, &ensemble); err != nil {
		return model.EnsembleRecord{}, err
	}
	if err := checkVersion(ensemble.VersionedRecord); err != nil {
		return model.EnsembleRecord{}, err
	}
	return ensemble, nil
}

func EncodeSweep(s model.SweepRecord) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeSweep(data []byte) (model.SweepRecord, error) {
	var sweep model.SweepRecord
	if err := json.Unmarshal(data, &sweep); err != nil {
		return model.SweepRecord{}, err
	}
	if err := checkVersion(sweep.VersionedRecord); err != nil {
		return model.SweepRecord{}, err
	}
	return sweep, nil
}

func EncodeTrajectory(points []model.TrajectoryPoint) ([]byte, error) {
	return json.Marshal(points)
}

func DecodeTrajectory(data []byte) ([]model.TrajectoryPoint, error) {
	var points []model.TrajectoryPoint
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, err
	}
	return points, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}

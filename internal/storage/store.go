package storage

import (
	"context"

	"mayajiva/internal/model"
)

// Store defines persistence for completed runs and their aggregates.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context) ([]model.RunRecord, error)
	SaveTrajectory(ctx context.Context, runID string, points []model.TrajectoryPoint) error
	GetTrajectory(ctx context.Context, runID string) ([]model.TrajectoryPoint, bool, error)
	SaveEnsemble(ctx context.Context, ensemble model.EnsembleRecord) error
	GetEnsemble(ctx context.Context, id string) (model.EnsembleRecord, bool, error)
	SaveSweep(ctx context.Context, sweep model.SweepRecord) error
	GetSweep(ctx context.Context, id string) (model.SweepRecord, bool, error)
}

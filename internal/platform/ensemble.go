package platform

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"mayajiva/internal/agent"
	"mayajiva/internal/model"
	"mayajiva/internal/stats"
	"mayajiva/internal/storage"
)

// EnsembleRequest runs Runs bugs with seeds BaseSeed..BaseSeed+Runs-1 on
// one shared landscape. A zero Bug.Seed draws the base seed from entropy.
type EnsembleRequest struct {
	RunRequest
	Runs    int
	Workers int
}

type EnsembleResult struct {
	Record  model.EnsembleRecord
	Runs    []model.RunRecord
	Summary stats.EnsembleSummary
}

func (p *Platform) RunEnsemble(ctx context.Context, req EnsembleRequest) (EnsembleResult, error) {
	if err := p.ensureStarted(); err != nil {
		return EnsembleResult{}, err
	}
	if req.Runs < 1 {
		return EnsembleResult{}, fmt.Errorf("ensemble runs must be >= 1, got %d", req.Runs)
	}
	if err := req.validate(); err != nil {
		return EnsembleResult{}, err
	}
	base := req.Bug.Seed
	if base == 0 {
		base = agent.EntropySeed()
	}
	return p.runEnsemble(ctx, req, base)
}

func (p *Platform) runEnsemble(ctx context.Context, req EnsembleRequest, base int64) (EnsembleResult, error) {
	land, err := req.Landscape.Build()
	if err != nil {
		return EnsembleResult{}, err
	}

	workers := req.Workers
	if workers < 1 {
		workers = p.cfg.Workers
	}
	ensembleID := newID("ensemble", base)
	logger := p.logger.With("ensemble_id", ensembleID)
	logger.Info("ensemble started", "runs", req.Runs, "base_seed", base, "workers", workers)

	runs := make([]model.RunRecord, req.Runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < req.Runs; i++ {
		i := i
		g.Go(func() error {
			member := req.RunRequest
			member.Bug.Seed = base + int64(i)
			// Seed+i may wrap to zero, which would mean entropy.
			if member.Bug.Seed == 0 {
				return fmt.Errorf("ensemble member %d has zero seed", i)
			}
			res, err := p.runOne(gctx, "run", ensembleID, land, member)
			if err != nil {
				return err
			}
			runs[i] = res.Record
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return EnsembleResult{}, err
	}

	summary := stats.SummarizeRuns(runs)
	runIDs := make([]string, len(runs))
	for i, run := range runs {
		runIDs[i] = run.ID
	}
	record := model.EnsembleRecord{
		VersionedRecord:  storage.CurrentVersion(),
		ID:               ensembleID,
		Landscape:        runs[0].Landscape,
		BaseSeed:         base,
		Runs:             req.Runs,
		Duration:         req.Duration,
		DT:               req.DT,
		Contrast:         req.Bug.Compass.Contrast,
		SigmaTheta:       req.Bug.SigmaTheta,
		RunIDs:           runIDs,
		DistanceMean:     summary.Distance.Mean,
		DistanceStd:      summary.Distance.Std,
		HeadingErrorMean: summary.HeadingError.Mean,
		HeadingErrorStd:  summary.HeadingError.Std,
		InBoundsFraction: summary.InBoundsFraction,
		CreatedAtUTC:     p.now(),
	}
	if err := p.store.SaveEnsemble(ctx, record); err != nil {
		return EnsembleResult{}, fmt.Errorf("save ensemble %s: %w", ensembleID, err)
	}

	logger.Info("ensemble finished",
		"heading_error_mean", record.HeadingErrorMean,
		"in_bounds_fraction", record.InBoundsFraction,
	)
	return EnsembleResult{Record: record, Runs: runs, Summary: summary}, nil
}

func (p *Platform) GetEnsemble(ctx context.Context, id string) (model.EnsembleRecord, bool, error) {
	if err := p.ensureStarted(); err != nil {
		return model.EnsembleRecord{}, false, err
	}
	return p.store.GetEnsemble(ctx, id)
}

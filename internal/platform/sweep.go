package platform

import (
	"context"
	"fmt"

	"mayajiva/internal/agent"
	"mayajiva/internal/model"
	"mayajiva/internal/scape"
	"mayajiva/internal/stats"
	"mayajiva/internal/storage"
)

// SweepRequest runs one ensemble per (contrast, sigma_theta) cell. Every
// cell reuses the same seeds so cells differ only by the swept values.
type SweepRequest struct {
	EnsembleRequest
	Contrasts   []float64
	SigmaThetas []float64
}

type SweepResult struct {
	Record       model.SweepRecord
	ArtifactsDir string
}

func (p *Platform) RunSweep(ctx context.Context, req SweepRequest) (SweepResult, error) {
	if err := p.ensureStarted(); err != nil {
		return SweepResult{}, err
	}
	if len(req.Contrasts) == 0 || len(req.SigmaThetas) == 0 {
		return SweepResult{}, fmt.Errorf("sweep requires at least one contrast and one sigma_theta")
	}
	if req.Runs < 1 {
		return SweepResult{}, fmt.Errorf("ensemble runs must be >= 1, got %d", req.Runs)
	}
	base := req.Bug.Seed
	if base == 0 {
		base = agent.EntropySeed()
	}

	sweepID := newID("sweep", base)
	p.logger.Info("sweep started", "sweep_id", sweepID, "cells", len(req.Contrasts)*len(req.SigmaThetas))

	cells := make([]model.SweepCell, 0, len(req.Contrasts)*len(req.SigmaThetas))
	for _, contrast := range req.Contrasts {
		for _, sigma := range req.SigmaThetas {
			cell := req.EnsembleRequest
			cell.Bug.Compass.Contrast = contrast
			cell.Bug.SigmaTheta = sigma
			if err := cell.validate(); err != nil {
				return SweepResult{}, fmt.Errorf("cell contrast=%g sigma_theta=%g: %w", contrast, sigma, err)
			}
			res, err := p.runEnsemble(ctx, cell, base)
			if err != nil {
				return SweepResult{}, err
			}
			cells = append(cells, model.SweepCell{
				Contrast:         contrast,
				SigmaTheta:       sigma,
				EnsembleID:       res.Record.ID,
				HeadingErrorMean: res.Record.HeadingErrorMean,
				HeadingErrorStd:  res.Record.HeadingErrorStd,
				DistanceMean:     res.Record.DistanceMean,
				InBoundsFraction: res.Record.InBoundsFraction,
			})
		}
	}

	record := model.SweepRecord{
		VersionedRecord: storage.CurrentVersion(),
		ID:              sweepID,
		Landscape:       scape.NormalizePreset(req.Landscape.Preset),
		Contrasts:       append([]float64(nil), req.Contrasts...),
		SigmaThetas:     append([]float64(nil), req.SigmaThetas...),
		RunsPerCell:     req.Runs,
		Cells:           cells,
		CreatedAtUTC:    p.now(),
	}
	if err := p.store.SaveSweep(ctx, record); err != nil {
		return SweepResult{}, fmt.Errorf("save sweep %s: %w", sweepID, err)
	}

	result := SweepResult{Record: record}
	if p.cfg.ArtifactsDir != "" {
		dir, err := stats.WriteSweepArtifacts(p.cfg.ArtifactsDir, record)
		if err != nil {
			return SweepResult{}, err
		}
		result.ArtifactsDir = dir
	}
	p.logger.Info("sweep finished", "sweep_id", sweepID)
	return result, nil
}

func (p *Platform) GetSweep(ctx context.Context, id string) (model.SweepRecord, bool, error) {
	if err := p.ensureStarted(); err != nil {
		return model.SweepRecord{}, false, err
	}
	return p.store.GetSweep(ctx, id)
}

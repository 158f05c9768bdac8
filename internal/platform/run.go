package platform

import (
	"context"
	"fmt"

	"mayajiva/internal/agent"
	"mayajiva/internal/landscape"
	"mayajiva/internal/logging"
	"mayajiva/internal/model"
	"mayajiva/internal/scape"
	"mayajiva/internal/stats"
	"mayajiva/internal/storage"
)

// LandscapeSpec selects a preset and layers extra anomalies on it. Seed
// drives random presets only.
type LandscapeSpec struct {
	Preset    string                  `json:"preset"`
	Field     landscape.Config        `json:"field"`
	Anomalies []landscape.AnomalySpec `json:"anomalies,omitempty"`
	Seed      int64                   `json:"seed"`
}

func (s LandscapeSpec) Build() (*landscape.Landscape, error) {
	return scape.BuildPreset(s.Preset, s.Field, s.Anomalies, s.Seed)
}

type RunRequest struct {
	Landscape LandscapeSpec
	Bug       agent.Params
	Duration  float64
	DT        float64
}

func (r RunRequest) validate() error {
	if r.Duration <= 0 {
		return fmt.Errorf("duration must be > 0, got %g", r.Duration)
	}
	if r.DT <= 0 {
		return fmt.Errorf("dt must be > 0, got %g", r.DT)
	}
	return r.Bug.Validate()
}

type RunResult struct {
	Record       model.RunRecord
	Trajectory   []model.TrajectoryPoint
	ArtifactsDir string
}

func (p *Platform) RunSingle(ctx context.Context, req RunRequest) (RunResult, error) {
	if err := p.ensureStarted(); err != nil {
		return RunResult{}, err
	}
	if err := req.validate(); err != nil {
		return RunResult{}, err
	}
	land, err := req.Landscape.Build()
	if err != nil {
		return RunResult{}, err
	}
	return p.runOne(ctx, "single", "", land, req)
}

// runOne evaluates one bug on an already built landscape.
func (p *Platform) runOne(ctx context.Context, kind, ensembleID string, land *landscape.Landscape, req RunRequest) (RunResult, error) {
	preset := scape.NormalizePreset(req.Landscape.Preset)
	nav, err := scape.NewNavigationScape(preset, land, req.Duration, req.DT)
	if err != nil {
		return RunResult{}, err
	}
	bug, err := agent.New(req.Bug)
	if err != nil {
		return RunResult{}, err
	}

	runID := newID(kind, bug.Seed())
	logger := p.logger.With("run_id", runID, "seed", bug.Seed())
	logger.Debug("run started", "preset", preset, "duration", req.Duration, "dt", req.DT)

	fitness, trace, err := nav.Evaluate(ctx, bug)
	if err != nil {
		return RunResult{}, fmt.Errorf("run %s: %w", runID, err)
	}

	home := bug.HomeVector()
	inBounds := trace.Bool(scape.TraceInBounds)
	record := model.RunRecord{
		VersionedRecord:   storage.CurrentVersion(),
		ID:                runID,
		EnsembleID:        ensembleID,
		Landscape:         preset,
		Seed:              bug.Seed(),
		Duration:          req.Duration,
		DT:                req.DT,
		Steps:             bug.Steps(),
		InBounds:          inBounds,
		GoalHeading:       bug.GoalHeading(),
		FinalX:            bug.X(),
		FinalY:            bug.Y(),
		FinalHeading:      bug.Heading(),
		DistanceFromStart: bug.DistanceFromStart(),
		MeanHeadingError:  bug.MeanHeadingError(),
		HomeDistance:      home.Distance,
		HomeDirection:     home.Direction,
		Fitness:           float64(fitness),
		CreatedAtUTC:      p.now(),
	}
	trajectory := toTrajectory(bug.History(), req.DT)

	if !inBounds {
		logger.Warn("bug left landscape", "steps", record.Steps, "x", record.FinalX, "y", record.FinalY)
	}

	if err := p.store.SaveRun(ctx, record); err != nil {
		return RunResult{}, fmt.Errorf("save run %s: %w", runID, err)
	}
	if err := p.store.SaveTrajectory(ctx, runID, trajectory); err != nil {
		return RunResult{}, fmt.Errorf("save trajectory %s: %w", runID, err)
	}

	result := RunResult{Record: record, Trajectory: trajectory}
	if dir := p.runDir(runID); dir != "" {
		params := req.Bug
		params.Seed = bug.Seed()
		runDir, err := stats.WriteRunArtifacts(p.cfg.ArtifactsDir, stats.RunArtifacts{
			Config: stats.RunConfig{
				RunID:        runID,
				EnsembleID:   ensembleID,
				Preset:       preset,
				Field:        land.Config(),
				Anomalies:    req.Landscape.Anomalies,
				Bug:          params,
				Duration:     req.Duration,
				DT:           req.DT,
				Seed:         bug.Seed(),
				CreatedAtUTC: record.CreatedAtUTC,
			},
			Trajectory: trajectory,
			Summary:    record,
		})
		if err != nil {
			return RunResult{}, fmt.Errorf("write artifacts %s: %w", runID, err)
		}
		if err := p.appendIndex(stats.IndexEntryFor(record)); err != nil {
			return RunResult{}, fmt.Errorf("update run index: %w", err)
		}
		p.writeTelemetry(runDir, runID, trajectory)
		result.ArtifactsDir = runDir
	}

	logger.Info("run finished",
		"steps", record.Steps,
		"in_bounds", record.InBounds,
		"mean_heading_error", record.MeanHeadingError,
		"fitness", record.Fitness,
	)
	return result, nil
}

func (p *Platform) writeTelemetry(runDir, runID string, trajectory []model.TrajectoryPoint) {
	sl := logging.NewStepLogger(runDir, p.cfg.LogLevel)
	if sl == nil {
		return
	}
	defer sl.Close()
	for _, pt := range trajectory {
		sl.Log(logging.StepRecord{
			RunID:            runID,
			Step:             pt.Step,
			Time:             pt.Time,
			X:                pt.X,
			Y:                pt.Y,
			Heading:          pt.Heading,
			EstimatedHeading: pt.EstimatedHeading,
			BumpAmplitude:    pt.BumpAmplitude,
		})
	}
}

func toTrajectory(history []agent.State, dt float64) []model.TrajectoryPoint {
	out := make([]model.TrajectoryPoint, len(history))
	for i, s := range history {
		out[i] = model.TrajectoryPoint{
			Step:             i,
			Time:             float64(i) * dt,
			X:                s.X,
			Y:                s.Y,
			Heading:          s.Heading,
			EstimatedHeading: s.EstimatedHeading,
			BumpAmplitude:    s.BumpAmplitude,
		}
	}
	return out
}

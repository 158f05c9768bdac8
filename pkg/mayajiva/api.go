// Package mayajiva is the public entry point for running magnetic
// navigation simulations and reading back their results.
package mayajiva

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"mayajiva/internal/agent"
	"mayajiva/internal/landscape"
	"mayajiva/internal/logging"
	"mayajiva/internal/model"
	"mayajiva/internal/platform"
	"mayajiva/internal/stats"
	"mayajiva/internal/storage"
)

const (
	defaultArtifactsDir = "runs"
	defaultExportsDir   = "exports"
	defaultDBPath       = "mayajiva.db"
	defaultDuration     = 10.0
	defaultDT           = 0.01
	defaultRunsLimit    = 20
)

type (
	Params          = agent.Params
	FieldConfig     = landscape.Config
	AnomalySpec     = landscape.AnomalySpec
	TrajectoryPoint = model.TrajectoryPoint
	SweepCell       = model.SweepCell
)

func DefaultParams() Params { return agent.DefaultParams() }

func DefaultField() FieldConfig { return landscape.DefaultConfig() }

type Options struct {
	StoreKind    string
	DBPath       string
	ArtifactsDir string
	ExportsDir   string
	LogLevel     string
	Logger       *slog.Logger
	Workers      int
}

type Client struct {
	store  storage.Store
	logger *slog.Logger

	artifactsDir string
	exportsDir   string
	logLevel     string
	workers      int

	mu       sync.Mutex
	platform *platform.Platform
}

type RunRequest struct {
	Preset        string
	Field         *FieldConfig
	Anomalies     []AnomalySpec
	LandscapeSeed int64
	// Params nil means DefaultParams. A non-zero Seed overrides Params.Seed.
	Params   *Params
	Seed     int64
	Duration float64
	DT       float64
}

type RunSummary struct {
	RunID             string  `json:"run_id"`
	EnsembleID        string  `json:"ensemble_id,omitempty"`
	ArtifactsDir      string  `json:"artifacts_dir,omitempty"`
	Preset            string  `json:"preset"`
	Seed              int64   `json:"seed"`
	Steps             int     `json:"steps"`
	InBounds          bool    `json:"in_bounds"`
	FinalX            float64 `json:"final_x"`
	FinalY            float64 `json:"final_y"`
	FinalHeading      float64 `json:"final_heading"`
	GoalHeading       float64 `json:"goal_heading"`
	DistanceFromStart float64 `json:"distance_from_start"`
	MeanHeadingError  float64 `json:"mean_heading_error"`
	HomeDistance      float64 `json:"home_distance"`
	HomeDirection     float64 `json:"home_direction"`
	Fitness           float64 `json:"fitness"`
	CreatedAtUTC      string  `json:"created_at_utc"`
}

type EnsembleRequest struct {
	RunRequest
	Runs    int
	Workers int
}

type EnsembleSummary struct {
	EnsembleID       string   `json:"ensemble_id,omitempty"`
	BaseSeed         int64    `json:"base_seed"`
	RunIDs           []string `json:"run_ids"`
	HeadingErrorMean float64  `json:"heading_error_mean"`
	HeadingErrorStd  float64  `json:"heading_error_std"`
	DistanceMean     float64  `json:"distance_mean"`
	DistanceStd      float64  `json:"distance_std"`
	InBoundsFraction float64  `json:"in_bounds_fraction"`
}

type SweepRequest struct {
	EnsembleRequest
	Contrasts   []float64
	SigmaThetas []float64
}

type SweepSummary struct {
	SweepID      string      `json:"sweep_id"`
	ArtifactsDir string      `json:"artifacts_dir,omitempty"`
	Cells        []SweepCell `json:"cells"`
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID            string  `json:"run_id"`
	CreatedAtUTC     string  `json:"created_at_utc"`
	Preset           string  `json:"preset"`
	Seed             int64   `json:"seed"`
	Steps            int     `json:"steps"`
	InBounds         bool    `json:"in_bounds"`
	MeanHeadingError float64 `json:"mean_heading_error"`
	Fitness          float64 `json:"fitness"`
}

type TrajectoryRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string `json:"run_id"`
	Directory string `json:"directory"`
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	artifactsDir := opts.ArtifactsDir
	if artifactsDir == "" {
		artifactsDir = defaultArtifactsDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:        store,
		logger:       logger,
		artifactsDir: artifactsDir,
		exportsDir:   exportsDir,
		logLevel:     opts.LogLevel,
		workers:      opts.Workers,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	_, err := c.ensurePlatform(ctx)
	return err
}

func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	p, err := c.ensurePlatform(ctx)
	if err != nil {
		return RunSummary{}, err
	}
	res, err := p.RunSingle(ctx, req.platformRequest())
	if err != nil {
		return RunSummary{}, err
	}
	summary := summaryFromRecord(res.Record)
	summary.ArtifactsDir = res.ArtifactsDir
	return summary, nil
}

func (c *Client) Ensemble(ctx context.Context, req EnsembleRequest) (EnsembleSummary, error) {
	p, err := c.ensurePlatform(ctx)
	if err != nil {
		return EnsembleSummary{}, err
	}
	res, err := p.RunEnsemble(ctx, req.platformRequest())
	if err != nil {
		return EnsembleSummary{}, err
	}
	return ensembleFromRecord(res.Record), nil
}

func (c *Client) Sweep(ctx context.Context, req SweepRequest) (SweepSummary, error) {
	p, err := c.ensurePlatform(ctx)
	if err != nil {
		return SweepSummary{}, err
	}
	res, err := p.RunSweep(ctx, platform.SweepRequest{
		EnsembleRequest: req.EnsembleRequest.platformRequest(),
		Contrasts:       req.Contrasts,
		SigmaThetas:     req.SigmaThetas,
	})
	if err != nil {
		return SweepSummary{}, err
	}
	return SweepSummary{
		SweepID:      res.Record.ID,
		ArtifactsDir: res.ArtifactsDir,
		Cells:        append([]SweepCell(nil), res.Record.Cells...),
	}, nil
}

// Runs lists indexed runs newest first.
func (c *Client) Runs(_ context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = defaultRunsLimit
	}

	entries, err := stats.ListRunIndex(c.artifactsDir)
	if err != nil {
		return nil, err
	}
	if len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}

	out := make([]RunItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, RunItem{
			RunID:            e.RunID,
			CreatedAtUTC:     e.CreatedAtUTC,
			Preset:           e.Preset,
			Seed:             e.Seed,
			Steps:            e.Steps,
			InBounds:         e.InBounds,
			MeanHeadingError: e.MeanHeadingError,
			Fitness:          e.Fitness,
		})
	}
	return out, nil
}

// Show reads a run from the store, falling back to its artifacts so runs
// from earlier processes stay visible with the memory store.
func (c *Client) Show(ctx context.Context, runID string) (RunSummary, error) {
	p, err := c.ensurePlatform(ctx)
	if err != nil {
		return RunSummary{}, err
	}
	run, err := p.GetRun(ctx, runID)
	if err == nil {
		return summaryFromRecord(run), nil
	}
	if !errors.Is(err, platform.ErrRunNotFound) {
		return RunSummary{}, err
	}
	run, ok, readErr := stats.ReadRunSummary(c.artifactsDir, runID)
	if readErr != nil {
		return RunSummary{}, readErr
	}
	if !ok {
		return RunSummary{}, err
	}
	summary := summaryFromRecord(run)
	summary.ArtifactsDir = filepath.Join(c.artifactsDir, runID)
	return summary, nil
}

func (c *Client) Trajectory(ctx context.Context, req TrajectoryRequest) ([]TrajectoryPoint, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	p, err := c.ensurePlatform(ctx)
	if err != nil {
		return nil, err
	}
	runID, err := c.resolveRunID(req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}
	points, err := p.Trajectory(ctx, runID)
	if errors.Is(err, platform.ErrRunNotFound) {
		var ok bool
		var readErr error
		points, ok, readErr = stats.ReadTrajectory(c.artifactsDir, runID)
		if readErr != nil {
			return nil, readErr
		}
		if ok {
			err = nil
		}
	}
	if err != nil {
		return nil, err
	}
	if req.Limit > 0 && len(points) > req.Limit {
		points = points[:req.Limit]
	}
	return points, nil
}

func (c *Client) Export(ctx context.Context, req ExportRequest) (ExportSummary, error) {
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}
	if req.RunID == "" && !req.Latest {
		return ExportSummary{}, errors.New("export requires run id or latest")
	}
	runID, err := c.resolveRunID(req.RunID, req.Latest)
	if err != nil {
		return ExportSummary{}, err
	}

	p, err := c.ensurePlatform(ctx)
	if err != nil {
		return ExportSummary{}, err
	}
	exportedDir, err := p.Export(runID, req.OutDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: filepath.Clean(exportedDir)}, nil
}

func (c *Client) resolveRunID(runID string, latest bool) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either run id or latest")
	}
	if !latest {
		if runID == "" {
			return "", errors.New("run id is required")
		}
		return runID, nil
	}
	entries, err := stats.ListRunIndex(c.artifactsDir)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", errors.New("no runs available")
	}
	return entries[0].RunID, nil
}

func (c *Client) ensurePlatform(ctx context.Context) (*platform.Platform, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.platform != nil {
		return c.platform, nil
	}
	p := platform.New(platform.Config{
		Store:        c.store,
		Logger:       c.logger,
		ArtifactsDir: c.artifactsDir,
		LogLevel:     c.logLevel,
		Workers:      c.workers,
	})
	if err := p.Init(ctx); err != nil {
		return nil, fmt.Errorf("init platform: %w", err)
	}
	c.platform = p
	return p, nil
}

func (r RunRequest) platformRequest() platform.RunRequest {
	params := agent.DefaultParams()
	if r.Params != nil {
		params = *r.Params
	}
	if r.Seed != 0 {
		params.Seed = r.Seed
	}
	field := landscape.DefaultConfig()
	if r.Field != nil {
		field = *r.Field
	}
	duration := r.Duration
	if duration == 0 {
		duration = defaultDuration
	}
	dt := r.DT
	if dt == 0 {
		dt = defaultDT
	}
	return platform.RunRequest{
		Landscape: platform.LandscapeSpec{
			Preset:    r.Preset,
			Field:     field,
			Anomalies: r.Anomalies,
			Seed:      r.LandscapeSeed,
		},
		Bug:      params,
		Duration: duration,
		DT:       dt,
	}
}

func (r EnsembleRequest) platformRequest() platform.EnsembleRequest {
	return platform.EnsembleRequest{
		RunRequest: r.RunRequest.platformRequest(),
		Runs:       r.Runs,
		Workers:    r.Workers,
	}
}

func summaryFromRecord(run model.RunRecord) RunSummary {
	return RunSummary{
		RunID:             run.ID,
		EnsembleID:        run.EnsembleID,
		Preset:            run.Landscape,
		Seed:              run.Seed,
		Steps:             run.Steps,
		InBounds:          run.InBounds,
		FinalX:            run.FinalX,
		FinalY:            run.FinalY,
		FinalHeading:      run.FinalHeading,
		GoalHeading:       run.GoalHeading,
		DistanceFromStart: run.DistanceFromStart,
		MeanHeadingError:  run.MeanHeadingError,
		HomeDistance:      run.HomeDistance,
		HomeDirection:     run.HomeDirection,
		Fitness:           run.Fitness,
		CreatedAtUTC:      run.CreatedAtUTC,
	}
}

func ensembleFromRecord(e model.EnsembleRecord) EnsembleSummary {
	return EnsembleSummary{
		EnsembleID:       e.ID,
		BaseSeed:         e.BaseSeed,
		RunIDs:           append([]string(nil), e.RunIDs...),
		HeadingErrorMean: e.HeadingErrorMean,
		HeadingErrorStd:  e.HeadingErrorStd,
		DistanceMean:     e.DistanceMean,
		DistanceStd:      e.DistanceStd,
		InBoundsFraction: e.InBoundsFraction,
	}
}

// Package platform runs bugs through navigation scapes and persists the
// results.
package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"mayajiva/internal/logging"
	"mayajiva/internal/model"
	"mayajiva/internal/stats"
	"mayajiva/internal/storage"
)

var (
	ErrRunNotFound    = errors.New("run not found")
	ErrNotInitialized = errors.New("platform is not initialized")
)

// timestampLayout is fixed width so timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Config struct {
	Store  storage.Store
	Logger *slog.Logger
	// ArtifactsDir receives per-run directories and the run index. Empty
	// disables artifact files.
	ArtifactsDir string
	// LogLevel gates step telemetry; debug and trace write steps.jsonl.
	LogLevel string
	Workers  int
	Now      func() time.Time
}

type Platform struct {
	store  storage.Store
	logger *slog.Logger
	cfg    Config

	mu      sync.RWMutex
	started bool

	// indexMu serializes run_index.json rewrites across ensemble workers.
	indexMu sync.Mutex
}

func New(cfg Config) *Platform {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Platform{store: cfg.Store, logger: logger, cfg: cfg}
}

func (p *Platform) Init(ctx context.Context) error {
	if p.store == nil {
		return fmt.Errorf("store is required")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}
	if err := p.store.Init(ctx); err != nil {
		return err
	}
	p.started = true
	return nil
}

func (p *Platform) Started() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.started
}

func (p *Platform) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return nil
	}
	p.started = false
	return storage.CloseIfSupported(p.store)
}

func (p *Platform) Store() storage.Store { return p.store }

func (p *Platform) ArtifactsDir() string { return p.cfg.ArtifactsDir }

func (p *Platform) Runs(ctx context.Context) ([]model.RunRecord, error) {
	if err := p.ensureStarted(); err != nil {
		return nil, err
	}
	return p.store.ListRuns(ctx)
}

func (p *Platform) GetRun(ctx context.Context, id string) (model.RunRecord, error) {
	if err := p.ensureStarted(); err != nil {
		return model.RunRecord{}, err
	}
	run, ok, err := p.store.GetRun(ctx, id)
	if err != nil {
		return model.RunRecord{}, err
	}
	if !ok {
		return model.RunRecord{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, nil
}

func (p *Platform) Trajectory(ctx context.Context, runID string) ([]model.TrajectoryPoint, error) {
	if err := p.ensureStarted(); err != nil {
		return nil, err
	}
	points, ok, err := p.store.GetTrajectory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return points, nil
}

// Export copies a run's artifact directory to outDir.
func (p *Platform) Export(runID, outDir string) (string, error) {
	if p.cfg.ArtifactsDir == "" {
		return "", fmt.Errorf("artifacts directory is not configured")
	}
	return stats.ExportRunArtifacts(p.cfg.ArtifactsDir, runID, outDir)
}

func (p *Platform) ensureStarted() error {
	if !p.Started() {
		return ErrNotInitialized
	}
	return nil
}

func (p *Platform) now() string {
	return p.cfg.Now().UTC().Format(timestampLayout)
}

func (p *Platform) runDir(runID string) string {
	if p.cfg.ArtifactsDir == "" {
		return ""
	}
	return filepath.Join(p.cfg.ArtifactsDir, runID)
}

func (p *Platform) appendIndex(entry stats.RunIndexEntry) error {
	p.indexMu.Lock()
	defer p.indexMu.Unlock()
	return stats.AppendRunIndex(p.cfg.ArtifactsDir, entry)
}

func newID(kind string, seed int64) string {
	return fmt.Sprintf("%s-%d-%s", kind, seed, uuid.New().String()[:8])
}

package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"mayajiva/internal/model"
)

type MemoryStore struct {
	mu           sync.RWMutex
	initialized  bool
	runs         map[string]model.RunRecord
	trajectories map[string][]model.TrajectoryPoint
	ensembles    map[string]model.EnsembleRecord
	sweeps       map[string]model.SweepRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]model.RunRecord)
	s.trajectories = make(map[string][]model.TrajectoryPoint)
	s.ensembles = make(map[string]model.EnsembleRecord)
	s.sweeps = make(map[string]model.SweepRecord)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

// ListRuns returns runs newest first, ties broken by id.
func (s *MemoryStore) ListRuns(_ context.Context) ([]model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.RunRecord, 0, len(s.runs))
	for _, run := range s.runs {
		out = append(out, run)
	}
	sortRuns(out)
	return out, nil
}

func (s *MemoryStore) SaveTrajectory(_ context.Context, runID string, points []model.TrajectoryPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.trajectories[runID] = append([]model.TrajectoryPoint(nil), points...)
	return nil
}

func (s *MemoryStore) GetTrajectory(_ context.Context, runID string) ([]model.TrajectoryPoint, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	points, ok := s.trajectories[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]model.TrajectoryPoint(nil), points...), true, nil
}

func (s *MemoryStore) SaveEnsemble(_ context.Context, ensemble model.EnsembleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	ensemble.RunIDs = append([]string(nil), ensemble.RunIDs...)
	s.ensembles[ensemble.ID] = ensemble
	return nil
}

func (s *MemoryStore) GetEnsemble(_ context.Context, id string) (model.EnsembleRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ensemble, ok := s.ensembles[id]
	return ensemble, ok, nil
}

func (s *MemoryStore) SaveSweep(_ context.Context, sweep model.SweepRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	sweep.Cells = append([]model.SweepCell(nil), sweep.Cells...)
	s.sweeps[sweep.ID] = sweep
	return nil
}

func (s *MemoryStore) GetSweep(_ context.Context, id string) (model.SweepRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sweep, ok := s.sweeps[id]
	return sweep, ok, nil
}

var errNotInitialized = errors.New("store is not initialized")

func sortRuns(runs []model.RunRecord) {
	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].CreatedAtUTC != runs[j].CreatedAtUTC {
			return runs[i].CreatedAtUTC > runs[j].CreatedAtUTC
		}
		return runs[i].ID < runs[j].ID
	})
}

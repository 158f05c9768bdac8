// Package parity checks simulated trajectories against reference
// trajectories dumped by an independent implementation.
package parity

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"mayajiva/internal/agent"
	"mayajiva/internal/landscape"
)

var ErrIndexOutOfRange = errors.New("reference index outside trajectory")

type ReferenceState struct {
	X                float64 `json:"x"`
	Y                float64 `json:"y"`
	Heading          float64 `json:"heading"`
	EstimatedHeading float64 `json:"estimated_heading"`
}

type FixtureParams struct {
	X0          float64 `json:"x0"`
	Y0          float64 `json:"y0"`
	Heading0    float64 `json:"heading0"`
	GoalHeading float64 `json:"goal_heading"`
	Speed       float64 `json:"speed"`
	Kappa       float64 `json:"kappa"`
	SigmaTheta  float64 `json:"sigma_theta"`
	SigmaXY     float64 `json:"sigma_xy"`
	Seed        int64   `json:"seed"`
}

type FixtureLandscape struct {
	B0             float64 `json:"B0"`
	Declination    float64 `json:"declination"`
	InclinationDeg float64 `json:"inclination_deg"`
}

// Fixture is a sparse reference trajectory keyed by history index.
type Fixture struct {
	Params     FixtureParams             `json:"params"`
	Landscape  FixtureLandscape          `json:"landscape"`
	DT         float64                   `json:"dt"`
	NSteps     int                       `json:"n_steps"`
	Trajectory map[string]ReferenceState `json:"trajectory"`
}

func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, err
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("decode fixture %s: %w", path, err)
	}
	if f.DT <= 0 {
		return Fixture{}, fmt.Errorf("fixture %s: dt must be > 0", path)
	}
	if f.NSteps < 0 {
		return Fixture{}, fmt.Errorf("fixture %s: n_steps must be >= 0", path)
	}
	return f, nil
}

func WriteFixture(path string, f Fixture) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

type sample struct {
	index int
	state ReferenceState
}

// samples returns the reference states ordered by history index.
func (f Fixture) samples() ([]sample, error) {
	out := make([]sample, 0, len(f.Trajectory))
	for key, state := range f.Trajectory {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("invalid trajectory index %q", key)
		}
		out = append(out, sample{index: idx, state: state})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].index < out[j].index })
	return out, nil
}

// Indices returns the sampled history indices in ascending order.
func (f Fixture) Indices() ([]int, error) {
	samples, err := f.samples()
	if err != nil {
		return nil, err
	}
	out := make([]int, len(samples))
	for i, s := range samples {
		out[i] = s.index
	}
	return out, nil
}

// BugParams returns noiseless bug parameters matching the fixture.
func (f Fixture) BugParams() agent.Params {
	p := agent.DefaultParams().Noiseless().WithHeading(f.Params.Heading0)
	p.X0 = f.Params.X0
	p.Y0 = f.Params.Y0
	p.GoalHeading = f.Params.GoalHeading
	p.Speed = f.Params.Speed
	p.Kappa = f.Params.Kappa
	p.SigmaTheta = f.Params.SigmaTheta
	p.SigmaXY = f.Params.SigmaXY
	p.Seed = f.Params.Seed
	return p
}

func (f Fixture) LandscapeConfig() landscape.Config {
	cfg := landscape.DefaultConfig()
	cfg.B0 = f.Landscape.B0
	cfg.Declination = f.Landscape.Declination
	cfg.Inclination = f.Landscape.InclinationDeg * math.Pi / 180
	return cfg
}

// FixtureFromHistory samples a trajectory at the given indices. Indices
// outside the history are skipped.
func FixtureFromHistory(p agent.Params, land landscape.Config, history []agent.State, dt float64, indices []int) Fixture {
	f := Fixture{
		Params: FixtureParams{
			X0:          p.X0,
			Y0:          p.Y0,
			GoalHeading: p.GoalHeading,
			Speed:       p.Speed,
			Kappa:       p.Kappa,
			SigmaTheta:  p.SigmaTheta,
			SigmaXY:     p.SigmaXY,
			Seed:        p.Seed,
		},
		Landscape: FixtureLandscape{
			B0:             land.B0,
			Declination:    land.Declination,
			InclinationDeg: land.Inclination * 180 / math.Pi,
		},
		DT:         dt,
		NSteps:     len(history) - 1,
		Trajectory: make(map[string]ReferenceState, len(indices)),
	}
	if p.Heading0 != nil {
		f.Params.Heading0 = *p.Heading0
	} else if len(history) > 0 {
		f.Params.Heading0 = history[0].Heading
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(history) {
			continue
		}
		s := history[idx]
		f.Trajectory[strconv.Itoa(idx)] = ReferenceState{
			X:                s.X,
			Y:                s.Y,
			Heading:          s.Heading,
			EstimatedHeading: s.EstimatedHeading,
		}
	}
	return f
}

// EvenIndices returns count+1 indices spread evenly over [0, steps].
func EvenIndices(steps, count int) []int {
	if count <= 0 || steps <= 0 {
		return []int{0}
	}
	out := make([]int, 0, count+1)
	seen := make(map[int]bool, count+1)
	for i := 0; i <= count; i++ {
		idx := i * steps / count
		if !seen[idx] {
			seen[idx] = true
			out = append(out, idx)
		}
	}
	return out
}

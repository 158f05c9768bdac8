package parity

import (
	"fmt"
	"math"

	"mayajiva/internal/agent"
	"mayajiva/internal/angle"
	"mayajiva/internal/landscape"
)

// Tolerance bounds the per-sample absolute differences. Heading
// differences are wrap-aware.
type Tolerance struct {
	Position float64 `json:"position"`
	Heading  float64 `json:"heading"`
}

func DefaultTolerance() Tolerance {
	return Tolerance{Position: 0.5, Heading: 0.2}
}

type Mismatch struct {
	Index int     `json:"index"`
	Field string  `json:"field"`
	Got   float64 `json:"got"`
	Want  float64 `json:"want"`
	Diff  float64 `json:"diff"`
}

type Report struct {
	Checked          int        `json:"checked"`
	MaxPositionError float64    `json:"max_position_error"`
	MaxHeadingError  float64    `json:"max_heading_error"`
	Mismatches       []Mismatch `json:"mismatches,omitempty"`
}

func (r Report) Passed() bool {
	return len(r.Mismatches) == 0
}

// Compare checks history against every sampled index of the fixture.
func Compare(history []agent.State, f Fixture, tol Tolerance) (Report, error) {
	samples, err := f.samples()
	if err != nil {
		return Report{}, err
	}
	var report Report
	for _, s := range samples {
		idx := s.index
		if idx >= len(history) {
			return Report{}, fmt.Errorf("%w: index %d, history length %d", ErrIndexOutOfRange, idx, len(history))
		}
		got := history[idx]
		want := s.state

		dx := math.Abs(got.X - want.X)
		dy := math.Abs(got.Y - want.Y)
		dh := angle.Diff(got.Heading, want.Heading)
		report.MaxPositionError = math.Max(report.MaxPositionError, math.Max(dx, dy))
		report.MaxHeadingError = math.Max(report.MaxHeadingError, dh)

		if dx > tol.Position {
			report.Mismatches = append(report.Mismatches, Mismatch{Index: idx, Field: "x", Got: got.X, Want: want.X, Diff: dx})
		}
		if dy > tol.Position {
			report.Mismatches = append(report.Mismatches, Mismatch{Index: idx, Field: "y", Got: got.Y, Want: want.Y, Diff: dy})
		}
		if dh > tol.Heading {
			report.Mismatches = append(report.Mismatches, Mismatch{Index: idx, Field: "heading", Got: got.Heading, Want: want.Heading, Diff: dh})
		}
		report.Checked++
	}
	return report, nil
}

// Replay runs a bug configured from the fixture for its step count and
// compares the result.
func Replay(f Fixture, tol Tolerance) (Report, []agent.State, error) {
	bug, err := agent.New(f.BugParams())
	if err != nil {
		return Report{}, nil, err
	}
	land := landscape.New(f.LandscapeConfig())
	for i := 0; i < f.NSteps; i++ {
		bug.Step(f.DT, land)
	}
	history := bug.History()
	report, err := Compare(history, f, tol)
	if err != nil {
		return Report{}, nil, err
	}
	return report, history, nil
}

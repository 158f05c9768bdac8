package agent

import (
	"math"
	"testing"

	"mayajiva/internal/angle"
	"mayajiva/internal/landscape"
)

func uniformLandscape() *landscape.Landscape {
	return landscape.New(landscape.DefaultConfig())
}

func TestBugSteersTowardGoal(t *testing.T) {
	p := DefaultParams().Noiseless().WithHeading(0)
	p.Seed = 99

	bug, err := New(p)
	if err != nil {
		t.Fatalf("new bug: %v", err)
	}
	if !bug.Run(uniformLandscape(), 10, 0.01) {
		t.Fatal("expected bug to stay in bounds")
	}
	if diff := angle.Diff(bug.Heading(), p.GoalHeading); diff > 0.5 {
		t.Fatalf("expected heading near goal, got=%f goal=%f", bug.Heading(), p.GoalHeading)
	}
	if got := len(bug.History()); got != 1001 {
		t.Fatalf("expected 1001 history entries, got=%d", got)
	}
}

func TestBugRecordsHistory(t *testing.T) {
	p := DefaultParams().Noiseless()
	p.Seed = 1
	land := uniformLandscape()

	bug, err := New(p)
	if err != nil {
		t.Fatalf("new bug: %v", err)
	}
	if got := len(bug.History()); got != 1 {
		t.Fatalf("expected initial history entry, got=%d", got)
	}
	bug.Step(0.01, land)
	if got := len(bug.History()); got != 2 {
		t.Fatalf("expected 2 entries after one step, got=%d", got)
	}
	bug.Run(land, 0.5, 0.01)
	if got := len(bug.History()); got != 52 {
		t.Fatalf("expected 52 entries, got=%d", got)
	}
	if bug.Steps() != 51 {
		t.Fatalf("expected 51 steps, got=%d", bug.Steps())
	}

	first := bug.History()[0]
	if first.X != p.X0 || first.Y != p.Y0 {
		t.Fatalf("expected initial state at start position, got=%+v", first)
	}
	history := bug.History()
	history[0].X = -1
	if bug.History()[0].X != p.X0 {
		t.Fatal("expected History to return a copy")
	}
}

func TestBugSameSeedSameTrajectory(t *testing.T) {
	p := DefaultParams()
	p.Seed = 2024
	land := uniformLandscape()

	a, err := New(p)
	if err != nil {
		t.Fatalf("new bug: %v", err)
	}
	b, err := New(p)
	if err != nil {
		t.Fatalf("new bug: %v", err)
	}
	a.Run(land, 1, 0.01)
	b.Run(land, 1, 0.01)

	ha, hb := a.History(), b.History()
	if len(ha) != len(hb) {
		t.Fatalf("history length mismatch: %d vs %d", len(ha), len(hb))
	}
	for i := range ha {
		if ha[i] != hb[i] {
			t.Fatalf("trajectories diverged at %d: %+v vs %+v", i, ha[i], hb[i])
		}
	}
	if a.Heading() < 0 || a.Heading() >= angle.TwoPi {
		t.Fatalf("heading outside [0, 2pi): %f", a.Heading())
	}
}

func TestBugRandomInitialHeading(t *testing.T) {
	p := DefaultParams()
	p.Seed = 5
	a, err := New(p)
	if err != nil {
		t.Fatalf("new bug: %v", err)
	}
	b, err := New(p)
	if err != nil {
		t.Fatalf("new bug: %v", err)
	}
	if a.Heading() != b.Heading() {
		t.Fatalf("expected seeded random heading to repeat: %f vs %f", a.Heading(), b.Heading())
	}
	if a.Heading() < 0 || a.Heading() >= angle.TwoPi {
		t.Fatalf("initial heading outside [0, 2pi): %f", a.Heading())
	}
}

func TestBugEntropySeed(t *testing.T) {
	bug, err := New(DefaultParams())
	if err != nil {
		t.Fatalf("new bug: %v", err)
	}
	if bug.Seed() == 0 {
		t.Fatal("expected a non-zero effective seed")
	}
	if bug.ID() == "" {
		t.Fatal("expected a generated id")
	}
}

func TestBugStraightLineMetrics(t *testing.T) {
	p := DefaultParams().Noiseless().WithHeading(0)
	p.Kappa = 0
	p.GoalHeading = math.Pi / 2
	p.Seed = 3

	bug, err := New(p)
	if err != nil {
		t.Fatalf("new bug: %v", err)
	}
	bug.Run(uniformLandscape(), 1, 0.01)

	if d := bug.DistanceFromStart(); math.Abs(d-1) > 1e-9 {
		t.Fatalf("expected unit distance, got=%f", d)
	}
	if e := bug.MeanHeadingError(); math.Abs(e-math.Pi/2) > 1e-12 {
		t.Fatalf("expected constant error pi/2, got=%f", e)
	}
	home := bug.HomeVector()
	if home.Distance <= 0 {
		t.Fatalf("expected path integrator to accumulate, got=%+v", home)
	}
}

func TestBugLeavesBounds(t *testing.T) {
	p := DefaultParams().Noiseless().WithHeading(0)
	p.Kappa = 0
	p.X0 = 999.995
	p.Seed = 4

	bug, err := New(p)
	if err != nil {
		t.Fatalf("new bug: %v", err)
	}
	if bug.Run(uniformLandscape(), 1, 0.01) {
		t.Fatal("expected run to stop out of bounds")
	}
	if got := len(bug.History()); got != 2 {
		t.Fatalf("expected run to stop after one step, history=%d", got)
	}
}

func TestBugRunWithoutSteps(t *testing.T) {
	bug, err := New(DefaultParams())
	if err != nil {
		t.Fatalf("new bug: %v", err)
	}
	if !bug.Run(uniformLandscape(), 0.005, 0.01) {
		t.Fatal("expected in-bounds result for zero steps")
	}
	if !bug.Run(uniformLandscape(), 1, 0) {
		t.Fatal("expected in-bounds result for zero dt")
	}
	if got := len(bug.History()); got != 1 {
		t.Fatalf("expected no steps, history=%d", got)
	}
}

func TestParamsValidate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("expected defaults valid: %v", err)
	}
	cases := map[string]func(*Params){
		"negative speed":   func(p *Params) { p.Speed = -1 },
		"negative sigma":   func(p *Params) { p.SigmaXY = -0.1 },
		"no molecules":     func(p *Params) { p.Compass.Molecules = 0 },
		"tiny ring":        func(p *Params) { p.Compass.Channels = 2 },
		"zero tau":         func(p *Params) { p.Ring.Tau = 0 },
		"negative leak":    func(p *Params) { p.CPU4Leak = -1 },
		"negative compass": func(p *Params) { p.Compass.Sigma = -1 },
	}
	for name, mutate := range cases {
		p := DefaultParams()
		mutate(&p)
		if err := p.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
		if _, err := New(p); err == nil {
			t.Fatalf("%s: expected constructor error", name)
		}
	}
}

func TestBugNavigatesUnderDeclination(t *testing.T) {
	cfg := landscape.DefaultConfig()
	cfg.Declination = 0.5
	land := landscape.New(cfg)

	p := DefaultParams().Noiseless().WithHeading(0)
	p.Seed = 8
	bug, err := New(p)
	if err != nil {
		t.Fatalf("new bug: %v", err)
	}
	bug.Run(land, 10, 0.01)
	if diff := angle.Diff(bug.Heading(), p.GoalHeading); diff > 0.5 {
		t.Fatalf("expected heading near goal under declination, got=%f", bug.Heading())
	}
	if diff := angle.Diff(bug.EstimatedHeading(), p.GoalHeading); diff > 0.05 {
		t.Fatalf("expected estimate locked on goal, got=%f", bug.EstimatedHeading())
	}
}

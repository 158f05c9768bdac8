package scape

import (
	"context"
	"errors"
	"math"
	"testing"

	"mayajiva/internal/agent"
	"mayajiva/internal/landscape"
)

type idOnlyAgent struct{}

func (idOnlyAgent) ID() string { return "static" }

func newNoiselessBug(t *testing.T, x0, heading float64) *agent.Bug {
	t.Helper()
	p := agent.DefaultParams().Noiseless().WithHeading(heading)
	p.X0 = x0
	p.Seed = 11
	bug, err := agent.New(p)
	if err != nil {
		t.Fatalf("new bug: %v", err)
	}
	return bug
}

func TestNavigationScapeEvaluate(t *testing.T) {
	s, err := NewNavigationScape("", landscape.New(landscape.DefaultConfig()), 1, 0.01)
	if err != nil {
		t.Fatalf("new scape: %v", err)
	}
	if s.Name() != "navigation" {
		t.Fatalf("unexpected default name: %s", s.Name())
	}

	fitness, trace, err := s.Evaluate(context.Background(), newNoiselessBug(t, 500, 0))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if fitness < 0 || fitness > 1 {
		t.Fatalf("fitness out of range: %f", fitness)
	}
	if trace["steps"] != 100 {
		t.Fatalf("expected 100 steps, got %v", trace["steps"])
	}
	if trace["in_bounds"] != true {
		t.Fatalf("expected in-bounds run, got %v", trace["in_bounds"])
	}
	meanErr, ok := trace["mean_heading_error"].(float64)
	if !ok {
		t.Fatalf("missing mean heading error: %+v", trace)
	}
	if math.Abs(float64(fitness)-(1-meanErr/math.Pi)) > 1e-12 {
		t.Fatalf("fitness %f inconsistent with mean error %f", fitness, meanErr)
	}
	for _, key := range []string{"distance_from_start", "home_distance", "home_direction"} {
		if _, ok := trace[key]; !ok {
			t.Fatalf("missing trace key %s", key)
		}
	}
}

func TestNavigationScapeStopsAtBoundary(t *testing.T) {
	s, err := NewNavigationScape("edge", landscape.New(landscape.DefaultConfig()), 1, 0.01)
	if err != nil {
		t.Fatalf("new scape: %v", err)
	}
	_, trace, err := s.Evaluate(context.Background(), newNoiselessBug(t, 999.995, 0))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if trace["in_bounds"] != false {
		t.Fatalf("expected out-of-bounds run, got %v", trace["in_bounds"])
	}
	if trace["steps"] != 1 {
		t.Fatalf("expected one step before leaving, got %v", trace["steps"])
	}
}

func TestNavigationScapeHonorsCancellation(t *testing.T) {
	s, err := NewNavigationScape("nav", landscape.New(landscape.DefaultConfig()), 1, 0.01)
	if err != nil {
		t.Fatalf("new scape: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = s.Evaluate(ctx, newNoiselessBug(t, 500, 0))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNavigationScapeRejectsNonNavigator(t *testing.T) {
	s, err := NewNavigationScape("nav", landscape.New(landscape.DefaultConfig()), 1, 0.01)
	if err != nil {
		t.Fatalf("new scape: %v", err)
	}
	if _, _, err := s.Evaluate(context.Background(), idOnlyAgent{}); err == nil {
		t.Fatal("expected error for agent without navigation support")
	}
}

func TestNewNavigationScapeValidation(t *testing.T) {
	land := landscape.New(landscape.DefaultConfig())
	cases := []struct {
		name     string
		land     *landscape.Landscape
		duration float64
		dt       float64
	}{
		{name: "nil landscape", duration: 1, dt: 0.01},
		{name: "zero duration", land: land, dt: 0.01},
		{name: "negative dt", land: land, duration: 1, dt: -0.01},
	}
	for _, tc := range cases {
		if _, err := NewNavigationScape("x", tc.land, tc.duration, tc.dt); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestTraceAccessors(t *testing.T) {
	trace := Trace{TraceSteps: 12, TraceInBounds: true, TraceHomeDistance: 2.5}
	if trace.Float(TraceSteps) != 12 || trace.Float(TraceHomeDistance) != 2.5 {
		t.Fatalf("unexpected numeric reads: %+v", trace)
	}
	if !trace.Bool(TraceInBounds) {
		t.Fatal("expected in-bounds flag")
	}
	if trace.Float(TraceHomeDirection) != 0 || trace.Bool("missing") {
		t.Fatal("expected zero values for absent keys")
	}
}

package scape

import (
	"context"
	"fmt"
	"math"

	"mayajiva/internal/agent"
	"mayajiva/internal/landscape"
	"mayajiva/internal/nn"
)

// Navigator is an agent that can be advanced through a field.
type Navigator interface {
	Agent
	Step(dt float64, env agent.Environment) bool
	Steps() int
	DistanceFromStart() float64
	MeanHeadingError() float64
	HomeVector() nn.HomeVector
}

// NavigationScape runs a navigator through a landscape for a fixed
// duration and scores how well it held its goal heading.
type NavigationScape struct {
	name     string
	land     *landscape.Landscape
	duration float64
	dt       float64
}

func NewNavigationScape(name string, land *landscape.Landscape, duration, dt float64) (*NavigationScape, error) {
	if land == nil {
		return nil, fmt.Errorf("landscape is required")
	}
	if duration <= 0 {
		return nil, fmt.Errorf("duration must be > 0, got %g", duration)
	}
	if dt <= 0 {
		return nil, fmt.Errorf("dt must be > 0, got %g", dt)
	}
	if name == "" {
		name = "navigation"
	}
	return &NavigationScape{name: name, land: land, duration: duration, dt: dt}, nil
}

func (s *NavigationScape) Name() string { return s.name }

func (s *NavigationScape) Landscape() *landscape.Landscape { return s.land }

func (s *NavigationScape) Duration() float64 { return s.duration }

func (s *NavigationScape) DT() float64 { return s.dt }

func (s *NavigationScape) Evaluate(ctx context.Context, a Agent) (Fitness, Trace, error) {
	nav, ok := a.(Navigator)
	if !ok {
		return 0, nil, fmt.Errorf("agent %s does not implement navigator", a.ID())
	}

	steps := int(s.duration / s.dt)
	inBounds := true
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return 0, nil, err
		}
		if !nav.Step(s.dt, s.land) {
			inBounds = false
			break
		}
	}

	meanErr := nav.MeanHeadingError()
	home := nav.HomeVector()
	trace := Trace{
		TraceSteps:             nav.Steps(),
		TraceInBounds:          inBounds,
		TraceDistanceFromStart: nav.DistanceFromStart(),
		TraceMeanHeadingError:  meanErr,
		TraceHomeDistance:      home.Distance,
		TraceHomeDirection:     home.Direction,
	}
	return Fitness(1 - meanErr/math.Pi), trace, nil
}

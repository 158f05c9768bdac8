// Package scape evaluates agents inside an environment and reports a scalar
// fitness together with a trace of named measurements.
package scape

import "context"

// Fitness is higher-is-better and lies in [0, 1] for navigation.
type Fitness float64

// Trace holds per-evaluation measurements keyed by the Trace* names.
type Trace map[string]any

const (
	TraceSteps             = "steps"
	TraceInBounds          = "in_bounds"
	TraceDistanceFromStart = "distance_from_start"
	TraceMeanHeadingError  = "mean_heading_error"
	TraceHomeDistance      = "home_distance"
	TraceHomeDirection     = "home_direction"
)

type Agent interface {
	ID() string
}

type Scape interface {
	Name() string
	Evaluate(ctx context.Context, agent Agent) (Fitness, Trace, error)
}

// Bool reads a boolean measurement, false when absent.
func (t Trace) Bool(key string) bool {
	v, _ := t[key].(bool)
	return v
}

// Float reads a numeric measurement, 0 when absent.
func (t Trace) Float(key string) float64 {
	switch v := t[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

package landscape

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownAnomaly = errors.New("unknown anomaly type")

// AnomalySpec is the decodable description of an anomaly. Fields not used
// by the selected type are ignored.
type AnomalySpec struct {
	Type      string   `json:"type" yaml:"type"`
	X         float64  `json:"x,omitempty" yaml:"x,omitempty"`
	Y         float64  `json:"y,omitempty" yaml:"y,omitempty"`
	Strength  float64  `json:"strength,omitempty" yaml:"strength,omitempty"`
	Radius    float64  `json:"radius,omitempty" yaml:"radius,omitempty"`
	Depth     float64  `json:"depth,omitempty" yaml:"depth,omitempty"`
	Azimuth   float64  `json:"azimuth,omitempty" yaml:"azimuth,omitempty"`
	Contrast  float64  `json:"contrast,omitempty" yaml:"contrast,omitempty"`
	Width     float64  `json:"width,omitempty" yaml:"width,omitempty"`
	Magnitude float64  `json:"magnitude,omitempty" yaml:"magnitude,omitempty"`
	Direction float64  `json:"direction,omitempty" yaml:"direction,omitempty"`
	RefX      *float64 `json:"ref_x,omitempty" yaml:"ref_x,omitempty"`
	RefY      *float64 `json:"ref_y,omitempty" yaml:"ref_y,omitempty"`
}

// NormalizeKind lowercases and trims a type name and resolves aliases.
// An empty name selects gaussian.
func NormalizeKind(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, "_", "-")
	switch normalized {
	case "", "gauss", KindGaussian:
		return KindGaussian
	case "point-dipole", KindDipole:
		return KindDipole
	case "linear-fault", KindFault:
		return KindFault
	case "regional-gradient", "ramp", KindGradient:
		return KindGradient
	default:
		return normalized
	}
}

// Build converts the description into an Anomaly. A gradient without an explicit
// reference point is anchored at (refX, refY).
func (s AnomalySpec) Build(refX, refY float64) (Anomaly, error) {
	switch kind := NormalizeKind(s.Type); kind {
	case KindGaussian:
		if s.Radius <= 0 {
			return nil, fmt.Errorf("gaussian anomaly radius must be > 0, got %g", s.Radius)
		}
		return Gaussian{X: s.X, Y: s.Y, Strength: s.Strength, Radius: s.Radius}, nil
	case KindDipole:
		if s.Depth <= 0 {
			return nil, fmt.Errorf("dipole anomaly depth must be > 0, got %g", s.Depth)
		}
		return Dipole{X: s.X, Y: s.Y, Strength: s.Strength, Depth: s.Depth}, nil
	case KindFault:
		if s.Width <= 0 {
			return nil, fmt.Errorf("fault anomaly width must be > 0, got %g", s.Width)
		}
		return Fault{X: s.X, Y: s.Y, Azimuth: s.Azimuth, Contrast: s.Contrast, Width: s.Width}, nil
	case KindGradient:
		g := Gradient{Magnitude: s.Magnitude, Direction: s.Direction, RefX: refX, RefY: refY}
		if s.RefX != nil {
			g.RefX = *s.RefX
		}
		if s.RefY != nil {
			g.RefY = *s.RefY
		}
		return g, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAnomaly, kind)
	}
}

// SpecOf describes an existing anomaly so it can be stored with a run.
func SpecOf(a Anomaly) AnomalySpec {
	switch v := a.(type) {
	case Gaussian:
		return AnomalySpec{Type: KindGaussian, X: v.X, Y: v.Y, Strength: v.Strength, Radius: v.Radius}
	case Dipole:
		return AnomalySpec{Type: KindDipole, X: v.X, Y: v.Y, Strength: v.Strength, Depth: v.Depth}
	case Fault:
		return AnomalySpec{Type: KindFault, X: v.X, Y: v.Y, Azimuth: v.Azimuth, Contrast: v.Contrast, Width: v.Width}
	case Gradient:
		refX, refY := v.RefX, v.RefY
		return AnomalySpec{Type: KindGradient, Magnitude: v.Magnitude, Direction: v.Direction, RefX: &refX, RefY: &refY}
	default:
		return AnomalySpec{}
	}
}

// Build constructs a landscape from a config and a list of anomaly specs.
func Build(cfg Config, specs []AnomalySpec) (*Landscape, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("landscape extent must be positive, got %gx%g", cfg.Width, cfg.Height)
	}
	land := New(cfg)
	cx, cy := land.Centre()
	for i, spec := range specs {
		a, err := spec.Build(cx, cy)
		if err != nil {
			return nil, fmt.Errorf("anomaly %d: %w", i, err)
		}
		land.AddAnomaly(a)
	}
	return land, nil
}

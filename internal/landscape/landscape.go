// Package landscape models a 2D magnetic field: a uniform geomagnetic
// background plus summed contributions from geological anomalies.
package landscape

import (
	"math"

	"mayajiva/internal/angle"
)

const (
	DefaultWidth       = 1000.0
	DefaultHeight      = 1000.0
	DefaultB0          = 50.0
	DefaultDeclination = 0.0
	// DefaultInclination is 65 degrees.
	DefaultInclination = 65.0 * math.Pi / 180.0
)

type Config struct {
	Width       float64 `json:"width" yaml:"width"`
	Height      float64 `json:"height" yaml:"height"`
	B0          float64 `json:"b0" yaml:"b0"`
	Declination float64 `json:"declination" yaml:"declination"`
	Inclination float64 `json:"inclination" yaml:"inclination"`
}

func DefaultConfig() Config {
	return Config{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		B0:          DefaultB0,
		Declination: DefaultDeclination,
		Inclination: DefaultInclination,
	}
}

// FieldSample is the field observed at one point. Direction is the
// horizontal bearing, Intensity the horizontal magnitude and Inclination
// the dip below the horizontal plane.
type FieldSample struct {
	Direction   float64 `json:"direction"`
	Intensity   float64 `json:"intensity"`
	Inclination float64 `json:"inclination"`
}

type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

type Landscape struct {
	cfg        Config
	background Vector3
	anomalies  []Anomaly
}

func New(cfg Config) *Landscape {
	bh := cfg.B0 * math.Cos(cfg.Inclination)
	bv := cfg.B0 * math.Sin(cfg.Inclination)
	return &Landscape{
		cfg: cfg,
		background: Vector3{
			X: bh * math.Cos(cfg.Declination),
			Y: bh * math.Sin(cfg.Declination),
			Z: bv,
		},
	}
}

func (l *Landscape) Config() Config {
	return l.cfg
}

func (l *Landscape) Width() float64  { return l.cfg.Width }
func (l *Landscape) Height() float64 { return l.cfg.Height }

// Centre returns the midpoint of the landscape extent.
func (l *Landscape) Centre() (float64, float64) {
	return l.cfg.Width / 2, l.cfg.Height / 2
}

func (l *Landscape) AddAnomaly(a Anomaly) {
	if a == nil {
		return
	}
	l.anomalies = append(l.anomalies, a)
}

func (l *Landscape) ClearAnomalies() {
	l.anomalies = nil
}

func (l *Landscape) Anomalies() []Anomaly {
	return append([]Anomaly(nil), l.anomalies...)
}

// Vector returns the total field vector at (x, y).
func (l *Landscape) Vector(x, y float64) Vector3 {
	total := l.background
	for _, a := range l.anomalies {
		total = total.Add(a.Perturbation(x, y))
	}
	return total
}

func (l *Landscape) FieldAt(x, y float64) FieldSample {
	b := l.Vector(x, y)
	horizontal := math.Hypot(b.X, b.Y)
	return FieldSample{
		Direction:   math.Atan2(b.Y, b.X),
		Intensity:   horizontal,
		Inclination: math.Atan2(b.Z, horizontal),
	}
}

// DirectionDeviation reports how far the local field direction departs
// from the background declination, wrapped to [-π, π).
func (l *Landscape) DirectionDeviation(x, y float64) float64 {
	return angle.WrapPi(l.FieldAt(x, y).Direction - l.cfg.Declination)
}

// InBounds treats the extent edges as inside.
func (l *Landscape) InBounds(x, y float64) bool {
	return x >= 0 && x <= l.cfg.Width && y >= 0 && y <= l.cfg.Height
}

type GridSample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	FieldSample
	Deviation float64 `json:"deviation"`
}

// SampleGrid evaluates the field on an nx by ny lattice spanning the extent,
// edges included. Rows advance along y.
func (l *Landscape) SampleGrid(nx, ny int) []GridSample {
	if nx < 2 {
		nx = 2
	}
	if ny < 2 {
		ny = 2
	}
	out := make([]GridSample, 0, nx*ny)
	for j := 0; j < ny; j++ {
		y := l.cfg.Height * float64(j) / float64(ny-1)
		for i := 0; i < nx; i++ {
			x := l.cfg.Width * float64(i) / float64(nx-1)
			sample := l.FieldAt(x, y)
			out = append(out, GridSample{
				X:           x,
				Y:           y,
				FieldSample: sample,
				Deviation:   angle.WrapPi(sample.Direction - l.cfg.Declination),
			})
		}
	}
	return out
}

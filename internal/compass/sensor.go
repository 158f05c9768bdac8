// Package compass implements a population of radical-pair molecules read out
// as a small number of angular channels.
package compass

import (
	"math"
	"math/rand"

	"mayajiva/internal/angle"
)

const (
	DefaultMolecules = 1000
	DefaultChannels  = 8
	DefaultContrast  = 0.15
	DefaultMeanYield = 0.5
	DefaultSigma     = 0.02
)

type Config struct {
	Molecules int     `json:"n_cry" yaml:"n_cry"`
	Channels  int     `json:"n_channels" yaml:"n_channels"`
	Contrast  float64 `json:"contrast" yaml:"contrast"`
	MeanYield float64 `json:"mean_yield" yaml:"mean_yield"`
	Sigma     float64 `json:"sigma_sensor" yaml:"sigma_sensor"`
}

func DefaultConfig() Config {
	return Config{
		Molecules: DefaultMolecules,
		Channels:  DefaultChannels,
		Contrast:  DefaultContrast,
		MeanYield: DefaultMeanYield,
		Sigma:     DefaultSigma,
	}
}

// Sensor holds a fixed molecule-to-channel assignment and no random state.
type Sensor struct {
	cfg          Config
	model        YieldModel
	orientations []float64
	assignment   []int
	counts       []int
}

func NewSensor(cfg Config) *Sensor {
	return NewSensorWithModel(cfg, AnalyticYield{Contrast: cfg.Contrast, MeanYield: cfg.MeanYield})
}

func NewSensorWithModel(cfg Config, model YieldModel) *Sensor {
	if cfg.Molecules <= 0 {
		cfg.Molecules = DefaultMolecules
	}
	if cfg.Channels <= 0 {
		cfg.Channels = DefaultChannels
	}
	if model == nil {
		model = AnalyticYield{Contrast: cfg.Contrast, MeanYield: cfg.MeanYield}
	}
	s := &Sensor{
		cfg:          cfg,
		model:        model,
		orientations: angle.Uniform(cfg.Molecules),
		assignment:   make([]int, cfg.Molecules),
		counts:       make([]int, cfg.Channels),
	}
	centres := angle.Uniform(cfg.Channels)
	for k, phi := range s.orientations {
		best := 0
		bestDist := math.Inf(1)
		for c, centre := range centres {
			if d := math.Abs(angle.WrapPi(phi - centre)); d < bestDist {
				best = c
				bestDist = d
			}
		}
		s.assignment[k] = best
		s.counts[best]++
	}
	return s
}

func (s *Sensor) Config() Config { return s.cfg }

func (s *Sensor) Channels() int { return s.cfg.Channels }

// ChannelCounts returns the number of molecules bound to each channel.
func (s *Sensor) ChannelCounts() []int {
	return append([]int(nil), s.counts...)
}

// Read returns the per-channel mean yield for a heading measured relative
// to the field direction. Each molecule draws its noise from rng; a nil
// rng reads noiselessly. Channels without molecules read 0.
func (s *Sensor) Read(heading float64, rng *rand.Rand) []float64 {
	sums := make([]float64, s.cfg.Channels)
	noisy := s.cfg.Sigma > 0 && rng != nil
	for k, phi := range s.orientations {
		y := s.model.Yield(heading - phi)
		if noisy {
			y += rng.NormFloat64() * s.cfg.Sigma
		}
		sums[s.assignment[k]] += y
	}
	for c := range sums {
		if s.counts[c] == 0 {
			sums[c] = 0
			continue
		}
		sums[c] /= float64(s.counts[c])
	}
	return sums
}

// SignalToNoise is the theoretical per-channel ratio of yield modulation
// to averaged sensor noise.
func (s *Sensor) SignalToNoise() float64 {
	if s.cfg.Sigma <= 0 {
		return math.Inf(1)
	}
	perChannel := float64(s.cfg.Molecules) / float64(s.cfg.Channels)
	return s.model.Span() / (s.cfg.Sigma / math.Sqrt(perChannel))
}

package agent

import (
	"fmt"
	"math"

	"mayajiva/internal/compass"
	"mayajiva/internal/nn"
)

const (
	DefaultX0         = 500.0
	DefaultY0         = 100.0
	DefaultGoal       = 3 * math.Pi / 4
	DefaultSpeed      = 1.0
	DefaultKappa      = 2.0
	DefaultSigmaTheta = 0.1
	DefaultSigmaXY    = 0.05
	DefaultCPU4Leak   = 0.0
	DefaultCPU4Gain   = 1.0
)

// Params configures a Bug. A nil Heading0 draws the initial heading
// uniformly from [0, 2π). A zero Seed draws one from process entropy.
type Params struct {
	ID          string             `json:"id,omitempty" yaml:"id,omitempty"`
	X0          float64            `json:"x0" yaml:"x0"`
	Y0          float64            `json:"y0" yaml:"y0"`
	Heading0    *float64           `json:"heading0,omitempty" yaml:"heading0,omitempty"`
	GoalHeading float64            `json:"goal_heading" yaml:"goal_heading"`
	Speed       float64            `json:"speed" yaml:"speed"`
	Kappa       float64            `json:"kappa" yaml:"kappa"`
	SigmaTheta  float64            `json:"sigma_theta" yaml:"sigma_theta"`
	SigmaXY     float64            `json:"sigma_xy" yaml:"sigma_xy"`
	Compass     compass.Config     `json:"compass" yaml:"compass"`
	Ring        nn.RingConfig      `json:"attractor" yaml:"attractor"`
	CPU4Leak    float64            `json:"cpu4_leak" yaml:"cpu4_leak"`
	CPU4Gain    float64            `json:"cpu4_gain" yaml:"cpu4_gain"`
	Seed        int64              `json:"seed" yaml:"seed"`
	YieldModel  compass.YieldModel `json:"-" yaml:"-"`
}

func DefaultParams() Params {
	return Params{
		X0:          DefaultX0,
		Y0:          DefaultY0,
		GoalHeading: DefaultGoal,
		Speed:       DefaultSpeed,
		Kappa:       DefaultKappa,
		SigmaTheta:  DefaultSigmaTheta,
		SigmaXY:     DefaultSigmaXY,
		Compass:     compass.DefaultConfig(),
		Ring:        nn.DefaultRingConfig(),
		CPU4Leak:    DefaultCPU4Leak,
		CPU4Gain:    DefaultCPU4Gain,
	}
}

// Noiseless returns a copy with every noise source disabled.
func (p Params) Noiseless() Params {
	p.SigmaTheta = 0
	p.SigmaXY = 0
	p.Compass.Sigma = 0
	p.Ring.NoiseSigma = 0
	return p
}

// WithHeading returns a copy with a fixed initial heading.
func (p Params) WithHeading(h float64) Params {
	p.Heading0 = &h
	return p
}

func (p Params) Validate() error {
	if p.Speed < 0 {
		return fmt.Errorf("speed must be >= 0, got %g", p.Speed)
	}
	if p.SigmaTheta < 0 || p.SigmaXY < 0 {
		return fmt.Errorf("noise scales must be >= 0, got sigma_theta=%g sigma_xy=%g", p.SigmaTheta, p.SigmaXY)
	}
	if p.Compass.Molecules <= 0 {
		return fmt.Errorf("compass molecule count must be > 0, got %d", p.Compass.Molecules)
	}
	if p.Compass.Channels <= 0 {
		return fmt.Errorf("compass channel count must be > 0, got %d", p.Compass.Channels)
	}
	if p.Compass.Sigma < 0 {
		return fmt.Errorf("compass sigma must be >= 0, got %g", p.Compass.Sigma)
	}
	if p.CPU4Leak < 0 {
		return fmt.Errorf("cpu4 leak must be >= 0, got %g", p.CPU4Leak)
	}
	ring := p.Ring
	ring.Size = p.Compass.Channels
	if err := ring.Validate(); err != nil {
		return fmt.Errorf("attractor: %w", err)
	}
	return nil
}

// Package agent implements the navigating bug: a compass sensor feeding a
// heading ring attractor, a path integrator and a noisy steering law.
package agent

import (
	"fmt"
	"math"
	"math/rand"

	"mayajiva/internal/angle"
	"mayajiva/internal/compass"
	"mayajiva/internal/landscape"
	"mayajiva/internal/nn"
)

// Environment is the field a bug navigates through.
type Environment interface {
	FieldAt(x, y float64) landscape.FieldSample
	InBounds(x, y float64) bool
}

// State is one trajectory sample.
type State struct {
	X                float64 `json:"x"`
	Y                float64 `json:"y"`
	Heading          float64 `json:"heading"`
	EstimatedHeading float64 `json:"estimated_heading"`
	BumpAmplitude    float64 `json:"bump_amplitude"`
}

type Bug struct {
	id     string
	params Params
	seed   int64
	rng    *rand.Rand

	compass *compass.Sensor
	ring    *nn.RingAttractor
	cpu4    *nn.CPU4

	x       float64
	y       float64
	heading float64

	history []State
}

func New(p Params) (*Bug, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	seed := p.Seed
	if seed == 0 {
		seed = EntropySeed()
	}
	rng := rand.New(rand.NewSource(seed))

	var heading float64
	if p.Heading0 != nil {
		heading = angle.WrapTwoPi(*p.Heading0)
	} else {
		heading = rng.Float64() * angle.TwoPi
	}

	var sensor *compass.Sensor
	if p.YieldModel != nil {
		sensor = compass.NewSensorWithModel(p.Compass, p.YieldModel)
	} else {
		sensor = compass.NewSensor(p.Compass)
	}
	ringCfg := p.Ring
	ringCfg.Size = sensor.Channels()
	ring := nn.NewRingAttractor(ringCfg, rng)
	ring.ResetAt(heading)

	id := p.ID
	if id == "" {
		id = fmt.Sprintf("bug-%d", seed)
	}

	b := &Bug{
		id:      id,
		params:  p,
		seed:    seed,
		rng:     rng,
		compass: sensor,
		ring:    ring,
		cpu4:    nn.NewCPU4(ringCfg.Size, p.CPU4Leak, p.CPU4Gain),
		x:       p.X0,
		y:       p.Y0,
		heading: heading,
	}
	b.history = []State{b.snapshot(0)}
	return b, nil
}

func (b *Bug) snapshot(fieldDirection float64) State {
	return State{
		X:                b.x,
		Y:                b.y,
		Heading:          b.heading,
		EstimatedHeading: b.ring.Heading() + fieldDirection,
		BumpAmplitude:    b.ring.BumpAmplitude(),
	}
}

// Step advances the bug by dt and reports whether it is still in bounds.
func (b *Bug) Step(dt float64, env Environment) bool {
	field := env.FieldAt(b.x, b.y)
	reading := b.compass.Read(b.heading-field.Direction, b.rng)

	estimated := b.ring.Heading() + field.Direction
	command := b.params.Kappa * math.Sin(b.params.GoalHeading-estimated)

	b.ring.Step(dt, reading, command, b.rng)
	b.cpu4.Update(b.ring.Heading(), b.params.Speed, dt)

	sqrtDt := math.Sqrt(dt)
	b.heading += command*dt + b.params.SigmaTheta*sqrtDt*b.rng.NormFloat64()
	b.heading = angle.WrapTwoPi(b.heading)

	noiseX := b.params.SigmaXY * sqrtDt * b.rng.NormFloat64()
	noiseY := b.params.SigmaXY * sqrtDt * b.rng.NormFloat64()
	b.x += b.params.Speed*math.Cos(b.heading)*dt + noiseX
	b.y += b.params.Speed*math.Sin(b.heading)*dt + noiseY

	b.history = append(b.history, b.snapshot(field.Direction))
	return env.InBounds(b.x, b.y)
}

// Run performs floor(duration/dt) steps, stopping early when the bug leaves
// the environment. It returns false in that case.
func (b *Bug) Run(env Environment, duration, dt float64) bool {
	if dt <= 0 || duration <= 0 {
		return env.InBounds(b.x, b.y)
	}
	steps := int(duration / dt)
	for i := 0; i < steps; i++ {
		if !b.Step(dt, env) {
			return false
		}
	}
	return true
}

func (b *Bug) ID() string { return b.id }

// Seed is the effective RNG seed, including one drawn from entropy.
func (b *Bug) Seed() int64 { return b.seed }

func (b *Bug) Params() Params { return b.params }

func (b *Bug) X() float64           { return b.x }
func (b *Bug) Y() float64           { return b.y }
func (b *Bug) Heading() float64     { return b.heading }
func (b *Bug) GoalHeading() float64 { return b.params.GoalHeading }
func (b *Bug) Speed() float64       { return b.params.Speed }

// EstimatedHeading is the last recorded internal heading estimate.
func (b *Bug) EstimatedHeading() float64 {
	return b.history[len(b.history)-1].EstimatedHeading
}

func (b *Bug) BumpAmplitude() float64 { return b.ring.BumpAmplitude() }

func (b *Bug) AttractorState() []float64 { return b.ring.State() }

func (b *Bug) HomeVector() nn.HomeVector { return b.cpu4.HomeVector() }

func (b *Bug) PathMemory() []float64 { return b.cpu4.Memory() }

func (b *Bug) SignalToNoise() float64 { return b.compass.SignalToNoise() }

// Steps is the number of completed steps.
func (b *Bug) Steps() int { return len(b.history) - 1 }

// History returns a copy of the trajectory, initial state first.
func (b *Bug) History() []State {
	return append([]State(nil), b.history...)
}

func (b *Bug) DistanceFromStart() float64 {
	first := b.history[0]
	return math.Hypot(b.x-first.X, b.y-first.Y)
}

// MeanHeadingError is the mean absolute wrapped deviation of the true
// heading from the goal over the whole history.
func (b *Bug) MeanHeadingError() float64 {
	sum := 0.0
	for _, s := range b.history {
		sum += math.Abs(angle.WrapPi(s.Heading - b.params.GoalHeading))
	}
	return sum / float64(len(b.history))
}

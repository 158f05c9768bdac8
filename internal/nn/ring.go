package nn

import (
	"fmt"
	"math"
	"math/rand"

	"mayajiva/internal/angle"
)

const decodeEpsilon = 1e-10

type RingConfig struct {
	Size       int     `json:"n_neurons" yaml:"n_neurons"`
	Tau        float64 `json:"tau" yaml:"tau"`
	WExc       float64 `json:"w_exc" yaml:"w_exc"`
	WInh       float64 `json:"w_inh" yaml:"w_inh"`
	GainMag    float64 `json:"g_mag" yaml:"g_mag"`
	GainOmega  float64 `json:"g_omega" yaml:"g_omega"`
	Threshold  float64 `json:"threshold" yaml:"threshold"`
	RMax       float64 `json:"r_max" yaml:"r_max"`
	NoiseSigma float64 `json:"noise_sigma" yaml:"noise_sigma"`
}

func DefaultRingConfig() RingConfig {
	return RingConfig{
		Size:       8,
		Tau:        0.05,
		WExc:       1.5,
		WInh:       4.5,
		GainMag:    2.0,
		GainOmega:  0.5,
		Threshold:  0,
		RMax:       1,
		NoiseSigma: 0.01,
	}
}

func (c RingConfig) Validate() error {
	if c.Size < 3 {
		return fmt.Errorf("ring size must be >= 3, got %d", c.Size)
	}
	if c.Tau <= 0 {
		return fmt.Errorf("ring tau must be > 0, got %g", c.Tau)
	}
	if c.RMax <= 0 {
		return fmt.Errorf("ring r_max must be > 0, got %g", c.RMax)
	}
	if c.NoiseSigma < 0 {
		return fmt.Errorf("ring noise sigma must be >= 0, got %g", c.NoiseSigma)
	}
	return nil
}

// RingAttractor is a ring of rate units whose activity bump encodes a
// heading. Rates stay within [0, RMax].
type RingAttractor struct {
	cfg     RingConfig
	theta   []float64
	weights [][]float64
	rates   []float64
}

// NewRingAttractor builds the ring and seeds a bump at a unit drawn from
// rng. The ring does not keep rng; a nil rng seeds the bump at unit 0.
func NewRingAttractor(cfg RingConfig, rng *rand.Rand) *RingAttractor {
	if cfg.Size <= 0 {
		cfg.Size = DefaultRingConfig().Size
	}
	r := &RingAttractor{
		cfg:   cfg,
		theta: angle.Uniform(cfg.Size),
		rates: make([]float64, cfg.Size),
	}
	r.weights = make([][]float64, cfg.Size)
	for i := range r.weights {
		row := make([]float64, cfg.Size)
		for j := range row {
			row[j] = cfg.WExc * Rectify(math.Cos(r.theta[i]-r.theta[j]))
		}
		r.weights[i] = row
	}
	r.ResetRandom(rng)
	return r
}

func (r *RingAttractor) Config() RingConfig { return r.cfg }

func (r *RingAttractor) Size() int { return r.cfg.Size }

// PreferredDirections returns a copy of the unit preferred angles.
func (r *RingAttractor) PreferredDirections() []float64 {
	return append([]float64(nil), r.theta...)
}

// State returns a copy of the current rates.
func (r *RingAttractor) State() []float64 {
	return append([]float64(nil), r.rates...)
}

// Heading decodes the bump position in [0, 2π). A near-zero population
// vector decodes as 0.
func (r *RingAttractor) Heading() float64 {
	x, y := populationVector(r.rates, r.theta, 1)
	if math.Hypot(x, y) < decodeEpsilon {
		return 0
	}
	return angle.WrapTwoPi(math.Atan2(y, x))
}

func (r *RingAttractor) BumpAmplitude() float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range r.rates {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return hi - lo
}

// ResetAt replaces the state with a half-cosine bump centred on heading.
func (r *RingAttractor) ResetAt(heading float64) {
	for i, th := range r.theta {
		r.rates[i] = Rectify(0.5 * math.Cos(angle.WrapPi(th-heading)))
	}
}

// ResetRandom replaces the state with a triangular bump at a uniformly
// chosen unit. A nil rng centres it on unit 0.
func (r *RingAttractor) ResetRandom(rng *rand.Rand) {
	centre := 0
	if rng != nil {
		centre = rng.Intn(r.cfg.Size)
	}
	for i := range r.rates {
		d := circularIndexDistance(i, centre, r.cfg.Size)
		r.rates[i] = Rectify(0.5 - 0.15*float64(d))
	}
}

// Step advances the rates by dt. compass holds channel yields laid out at
// evenly spaced angles and may be nil. omega is an angular velocity drive.
// Unit noise is drawn from rng; a nil rng steps noiselessly.
func (r *RingAttractor) Step(dt float64, compass []float64, omega float64, rng *rand.Rand) {
	n := r.cfg.Size
	mean := 0.0
	for _, v := range r.rates {
		mean += v
	}
	mean /= float64(n)
	inhibition := r.cfg.WInh * mean

	magError, hasMag := r.compassError(compass)

	next := make([]float64, n)
	for i := 0; i < n; i++ {
		excitation := 0.0
		for j, w := range r.weights[i] {
			excitation += w * r.rates[j]
		}
		gradient := ringGradient(r.rates, i)

		drive := excitation - inhibition
		if hasMag {
			drive += r.cfg.GainMag * magError * gradient
		}
		if omega != 0 {
			drive += r.cfg.GainOmega * omega * gradient
		}
		drive -= r.cfg.Threshold
		if r.cfg.NoiseSigma > 0 && rng != nil {
			drive += rng.NormFloat64() * r.cfg.NoiseSigma
		}

		activation := Sat(drive, r.cfg.RMax, 0)
		rate := r.rates[i] + dt*(-r.rates[i]+activation)/r.cfg.Tau
		next[i] = Sat(rate, r.cfg.RMax, 0)
	}
	r.rates = next
}

// compassError decodes the channel yields in double-angle space, which
// removes the axial ambiguity of the sensor, and returns the signed
// single-angle mismatch against the current bump heading.
func (r *RingAttractor) compassError(compass []float64) (float64, bool) {
	if len(compass) == 0 {
		return 0, false
	}
	mean := 0.0
	for _, v := range compass {
		mean += v
	}
	mean /= float64(len(compass))
	centred := make([]float64, len(compass))
	for i, v := range compass {
		centred[i] = v - mean
	}

	positions := r.theta
	if len(compass) != r.cfg.Size {
		positions = angle.Uniform(len(compass))
	}
	x, y := populationVector(centred, positions, 2)
	if math.Hypot(x, y) <= decodeEpsilon {
		return 0, false
	}
	mismatch := math.Atan2(y, x) - 2*r.Heading()
	return math.Atan2(math.Sin(mismatch), math.Cos(mismatch)) / 2, true
}

package nn

import (
	"math"

	"mayajiva/internal/angle"
)

// CPU4 is a population of leaky accumulators that integrates self-motion
// into a displacement estimate.
type CPU4 struct {
	leak   float64
	gain   float64
	phi    []float64
	memory []float64
}

type HomeVector struct {
	Distance  float64 `json:"distance"`
	Direction float64 `json:"direction"`
}

func NewCPU4(size int, leak, gain float64) *CPU4 {
	if size <= 0 {
		size = DefaultRingConfig().Size
	}
	return &CPU4{
		leak:   leak,
		gain:   gain,
		phi:    angle.Uniform(size),
		memory: make([]float64, size),
	}
}

func (c *CPU4) Size() int { return len(c.memory) }

// Update integrates one step of travel at heading with the given speed.
func (c *CPU4) Update(heading, speed, dt float64) {
	for i, phi := range c.phi {
		drive := c.gain * speed * Rectify(math.Cos(heading-phi))
		if c.leak > 0 {
			c.memory[i] *= 1 - c.leak*dt
		}
		c.memory[i] += drive * dt
	}
}

// Displacement decodes the accumulated memory as a travel vector.
func (c *CPU4) Displacement() (float64, float64) {
	return populationVector(c.memory, c.phi, 1)
}

// HomeVector points from the current position back to the start.
func (c *CPU4) HomeVector() HomeVector {
	dx, dy := c.Displacement()
	return HomeVector{
		Distance:  math.Hypot(dx, dy),
		Direction: math.Atan2(-dy, -dx),
	}
}

func (c *CPU4) Reset() {
	for i := range c.memory {
		c.memory[i] = 0
	}
}

// Memory returns a copy of the accumulator values.
func (c *CPU4) Memory() []float64 {
	return append([]float64(nil), c.memory...)
}

// Package angle holds the wrap-aware angle arithmetic shared by the field,
// sensor and circuit models.
package angle

import "math"

const TwoPi = 2 * math.Pi

// WrapTwoPi maps a to [0, 2π).
func WrapTwoPi(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	if a >= TwoPi {
		a -= TwoPi
	}
	return a
}

// WrapPi maps a to [-π, π).
func WrapPi(a float64) float64 {
	a = math.Mod(a+math.Pi, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	return a - math.Pi
}

// Diff returns the absolute shortest angular distance between a and b.
func Diff(a, b float64) float64 {
	return math.Abs(WrapPi(a - b))
}

// Uniform returns n evenly spaced angles starting at zero.
func Uniform(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = TwoPi * float64(i) / float64(n)
	}
	return out
}

package nn

import (
	"fmt"
	"math"
)

// Sat clamps value to [min, max].
func Sat(value, max, min float64) float64 {
	if value > max {
		return max
	}
	if value < min {
		return min
	}
	return value
}

// Rectify returns value for positive inputs and zero otherwise.
func Rectify(value float64) float64 {
	if value < 0 {
		return 0
	}
	return value
}

// Avg returns the arithmetic mean of values.
func Avg(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("values must not be empty")
	}
	sum := 0.0
	for _, value := range values {
		sum += value
	}
	return sum / float64(len(values)), nil
}

// Std returns population standard deviation.
func Std(values []float64) (float64, error) {
	mean, err := Avg(values)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for _, value := range values {
		diff := mean - value
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(values))), nil
}

// ringGradient is the three-point difference rates[i-1] - rates[i+1] with
// wrap-around indexing.
func ringGradient(rates []float64, i int) float64 {
	n := len(rates)
	return rates[(i-1+n)%n] - rates[(i+1)%n]
}

// circularIndexDistance is the number of hops between i and j on a ring of n.
func circularIndexDistance(i, j, n int) int {
	d := i - j
	if d < 0 {
		d = -d
	}
	if n-d < d {
		return n - d
	}
	return d
}

// populationVector sums weights against unit vectors at angles scaled by
// harmonic and returns the resulting (x, y).
func populationVector(weights, angles []float64, harmonic float64) (float64, float64) {
	var x, y float64
	for i, w := range weights {
		s, c := math.Sincos(harmonic * angles[i])
		x += w * c
		y += w * s
	}
	return x, y
}

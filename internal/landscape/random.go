package landscape

import "math/rand"

// RandomDipoles scatters n dipoles uniformly over the extent. Each dipole
// gets strength or -strength with equal probability.
func RandomDipoles(n int, width, height, strength, depth float64, rng *rand.Rand) []Dipole {
	if n <= 0 || rng == nil {
		return nil
	}
	out := make([]Dipole, 0, n)
	for i := 0; i < n; i++ {
		x := rng.Float64() * width
		y := rng.Float64() * height
		s := strength
		if rng.Intn(2) == 0 {
			s = -strength
		}
		out = append(out, Dipole{X: x, Y: y, Strength: s, Depth: depth})
	}
	return out
}

// AddRandomDipoles adds n random dipoles spanning the landscape extent.
func (l *Landscape) AddRandomDipoles(n int, strength, depth float64, rng *rand.Rand) {
	for _, d := range RandomDipoles(n, l.cfg.Width, l.cfg.Height, strength, depth, rng) {
		l.AddAnomaly(d)
	}
}

package nn

import (
	"math"
	"testing"

	"mayajiva/internal/angle"
)

func TestCPU4NorthWalk(t *testing.T) {
	cpu4 := NewCPU4(8, 0, 1)
	for i := 0; i < 100; i++ {
		cpu4.Update(0, 1, 0.01)
	}

	memory := cpu4.Memory()
	for i, phi := range angle.Uniform(8) {
		want := math.Max(math.Cos(phi), 0)
		if math.Abs(memory[i]-want) > 1e-10 {
			t.Fatalf("unexpected memory at %d: got=%.15f want=%.15f", i, memory[i], want)
		}
	}

	dx, dy := cpu4.Displacement()
	if math.Abs(dx-2) > 1e-10 || math.Abs(dy) > 1e-10 {
		t.Fatalf("unexpected displacement: (%f, %f)", dx, dy)
	}
	home := cpu4.HomeVector()
	if math.Abs(home.Distance-2)/2 > 1e-8 {
		t.Fatalf("unexpected home distance: %f", home.Distance)
	}
	if diff := angle.Diff(home.Direction, math.Pi); diff > 1e-8 {
		t.Fatalf("expected home direction pointing back, got=%f", home.Direction)
	}
}

func TestCPU4NorthThenEast(t *testing.T) {
	cpu4 := NewCPU4(8, 0, 1)
	for i := 0; i < 100; i++ {
		cpu4.Update(0, 1, 0.01)
	}
	for i := 0; i < 100; i++ {
		cpu4.Update(math.Pi/2, 1, 0.01)
	}
	home := cpu4.HomeVector()
	if math.Abs(home.Distance-2*math.Sqrt2)/(2*math.Sqrt2) > 1e-8 {
		t.Fatalf("unexpected home distance: %f", home.Distance)
	}
	if diff := angle.Diff(home.Direction, -3*math.Pi/4); diff > 1e-8 {
		t.Fatalf("unexpected home direction: %f", home.Direction)
	}
}

func TestCPU4LeakReducesMemory(t *testing.T) {
	perfect := NewCPU4(8, 0, 1)
	leaky := NewCPU4(8, 0.1, 1)
	for i := 0; i < 100; i++ {
		perfect.Update(0, 1, 0.01)
		leaky.Update(0, 1, 0.01)
	}
	want := 10 * (1 - math.Pow(0.999, 100))
	if got := leaky.Memory()[0]; math.Abs(got-want) > 1e-10 {
		t.Fatalf("unexpected leaky memory: got=%.15f want=%.15f", got, want)
	}
	if leaky.HomeVector().Distance >= perfect.HomeVector().Distance {
		t.Fatal("expected leak to shorten the home vector")
	}
	pm, lm := perfect.Memory(), leaky.Memory()
	for i := range pm {
		if pm[i] > 1e-12 && lm[i] >= pm[i] {
			t.Fatalf("expected leak to reduce memory at %d: %f >= %f", i, lm[i], pm[i])
		}
	}
}

func TestCPU4Reset(t *testing.T) {
	cpu4 := NewCPU4(8, 0, 1)
	for i := 0; i < 10; i++ {
		cpu4.Update(float64(i), 1, 0.01)
	}
	cpu4.Reset()
	for i, v := range cpu4.Memory() {
		if v != 0 {
			t.Fatalf("expected zero memory at %d, got=%f", i, v)
		}
	}
	if cpu4.HomeVector().Distance != 0 {
		t.Fatal("expected zero home distance after reset")
	}
}

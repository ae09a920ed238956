package core

import (
	"math"
	"testing"
)

func TestNewRNGDeterministic(t *testing.T) {
	a, b := NewRNG(7), NewRNG(7)
	for i := 0; i < 100; i++ {
		if x, y := a.Uniform(0, 1), b.Uniform(0, 1); x != y {
			t.Fatalf("draw %d differs: %v vs %v", i, x, y)
		}
	}
}

func TestUniformRange(t *testing.T) {
	r := NewRNG(1)
	for i := 0; i < 1000; i++ {
		if v := r.Uniform(14, 22); v < 14 || v >= 22 {
			t.Fatalf("value %v outside [14, 22)", v)
		}
	}
	if v := r.Uniform(5, 5); v != 5 {
		t.Fatalf("degenerate range returned %v", v)
	}
	if v := r.Uniform(5, 3); v != 5 {
		t.Fatalf("inverted range returned %v", v)
	}
}

func TestPolarMagnitude(t *testing.T) {
	r := NewRNG(3)
	for i := 0; i < 1000; i++ {
		x, y := r.Polar(0.6, 2.2)
		if m := math.Hypot(x, y); m < 0.6-1e-9 || m >= 2.2+1e-9 {
			t.Fatalf("magnitude %v outside [0.6, 2.2)", m)
		}
	}
}

func TestIntN(t *testing.T) {
	r := NewRNG(9)
	if r.IntN(0) != 0 || r.IntN(-3) != 0 {
		t.Fatal("non-positive n should return 0")
	}
	seen := [3]bool{}
	for i := 0; i < 200; i++ {
		seen[r.IntN(3)] = true
	}
	if !seen[0] || !seen[1] || !seen[2] {
		t.Fatalf("IntN(3) never produced some values: %v", seen)
	}
}

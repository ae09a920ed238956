package core

import (
	"math"
	"math/rand/v2"
)

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Wrap adopts an existing source so callers can share one stream.
func Wrap(r *rand.Rand) *RNG {
	return &RNG{r: r}
}

// Uniform returns a float64 in [lo, hi). When hi <= lo it returns lo.
func (r *RNG) Uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + r.r.Float64()*(hi-lo)
}

// Angle returns a random angle in [0, 2π).
func (r *RNG) Angle() float64 {
	return r.r.Float64() * 2 * math.Pi
}

// Polar returns a vector with a uniform random direction and a magnitude drawn
// uniformly from [minMag, maxMag).
func (r *RNG) Polar(minMag, maxMag float64) (float64, float64) {
	mag := r.Uniform(minMag, maxMag)
	angle := r.Angle()
	return math.Cos(angle) * mag, math.Sin(angle) * mag
}

// IntN returns a random int in [0, n). It returns 0 when n <= 0.
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }

package grid

import (
	"math"
	"math/rand/v2"
)

// Source produces uniform values in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a deterministic source for seed.
// The result is not safe for concurrent use.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// DefaultSource returns a randomly seeded source.
func DefaultSource() Source {
	return NewSource(rand.Uint64())
}

// Draw returns a value in [0, MaxValue) from src.
// A nil src uses the process-wide generator.
func Draw(src Source) float64 {
	var u float64
	if src == nil {
		u = rand.Float64()
	} else {
		u = src.Float64()
	}
	v := u * MaxValue
	switch {
	case v >= MaxValue || math.IsNaN(v):
		// u close to 1 can round up to MaxValue.
		return math.Nextafter(MaxValue, 0)
	case v < 0:
		return 0
	}
	return v
}

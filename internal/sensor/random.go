package sensor

import "math/rand"

// Random is a source of uniformly distributed values in [0, 1).
type Random interface {
	Float64() float64
}

// globalRandom draws from the math/rand top-level generator, which is safe
// for concurrent use.
type globalRandom struct{}

func (globalRandom) Float64() float64 {
	return rand.Float64()
}

// DefaultRandom returns the process-wide random source.
func DefaultRandom() Random {
	return globalRandom{}
}

package primitives

import "math/rand/v2"

// NewRand returns a deterministic PCG-backed generator for the given seed.
// Two generators built from the same seed produce the same stream.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// intN returns a value in [0, n) using r, or the global source when r is nil.
func intN(r *rand.Rand, n int) int {
	if n <= 0 {
		return 0
	}
	if r != nil {
		return r.IntN(n)
	}
	return rand.IntN(n)
}

func float64n(r *rand.Rand) float64 {
	if r != nil {
		return r.Float64()
	}
	return rand.Float64()
}

package render

import (
	"math/rand/v2"

	"github.com/goliatone/go-promptgen/pkg/generators"
)

// RenderOptions describe per-pass overrides that leave the engine
// configuration untouched.
type RenderOptions struct {
	// Seed pins the pass random source so the same template, data and seed
	// always render the same output. Ignored when Rand is set.
	Seed *uint64
	// Rand supplies the pass random source directly. The engine never shares
	// it with another pass, but callers reusing it across passes must not
	// render concurrently.
	Rand *rand.Rand
	// Collaborators are merged over the engine defaults, letting a pass swap
	// the wildcard resolver or individual generators.
	Collaborators generators.Collaborators
	// Blocks collects prompt blocks for the pass. Leave nil to start from an
	// empty collection; pass the same collection to several passes to
	// accumulate across them.
	Blocks *Blocks
}

// WithSeed is a small helper for building RenderOptions with a fixed seed.
func WithSeed(seed uint64) RenderOptions {
	return RenderOptions{Seed: &seed}
}

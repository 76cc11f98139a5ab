// Package primitives implements the randomized and combinatorial building
// blocks exposed to prompt templates: uniform and weighted choice, coin flips,
// sampling without replacement and permutation enumeration.
//
// Every function takes its random source explicitly. Passing a generator from
// NewRand makes results reproducible; a nil source falls back to the
// process-wide math/rand/v2 generator.
package primitives

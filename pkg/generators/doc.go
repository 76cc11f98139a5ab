// Package generators defines the contracts between template primitives and
// the prompt generators plugged in at render time, and implements the three
// primitives that delegate to them: Wildcard, RandomSample and
// AllCombinations. pkg/wildcards provides a filesystem-backed implementation.
package generators

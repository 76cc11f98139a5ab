package primitives

import (
	"math"
	"math/rand/v2"
)

// Choice returns one of items with uniform probability.
func Choice[T any](r *rand.Rand, items ...T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, inputError("choice", ErrEmptyInput, "")
	}
	return items[intN(r, len(items))], nil
}

// Weighted pairs a candidate value with its relative likelihood.
type Weighted[T any] struct {
	Value  T
	Weight float64
}

// WeightedChoice selects a value with probability proportional to its weight.
// Weights are relative and need not sum to one. Zero weights are allowed and
// never selected, but at least one weight must be positive.
func WeightedChoice[T any](r *rand.Rand, items ...Weighted[T]) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, inputError("weighted_choice", ErrEmptyInput, "")
	}

	maxWeight := 0.0
	for idx, item := range items {
		w := item.Weight
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return zero, inputError("weighted_choice", ErrInvalidWeight, "weight %v at position %d", w, idx)
		}
		maxWeight = math.Max(maxWeight, w)
	}
	if maxWeight == 0 {
		return zero, inputError("weighted_choice", ErrInvalidWeight, "total weight 0")
	}

	// Weights are scaled by the largest one so large finite weights cannot
	// overflow the running total.
	cumulative := make([]float64, len(items))
	total := 0.0
	for idx, item := range items {
		total += item.Weight / maxWeight
		cumulative[idx] = total
	}

	x := float64n(r) * total
	for idx, bound := range cumulative {
		if x < bound {
			return items[idx].Value, nil
		}
	}

	// x can only reach total through rounding; fall back to the last
	// candidate that carries weight.
	for idx := len(items) - 1; idx >= 0; idx-- {
		if items[idx].Weight > 0 {
			return items[idx].Value, nil
		}
	}
	return zero, inputError("weighted_choice", ErrInvalidWeight, "")
}

// FlipCoin returns first or second with equal probability.
func FlipCoin[T any](r *rand.Rand, first, second T) T {
	if intN(r, 2) == 0 {
		return first
	}
	return second
}

// Random returns a float in [0, 1).
func Random(r *rand.Rand) float64 {
	return float64n(r)
}

// RandInt returns an integer in the closed range [low, high].
func RandInt(r *rand.Rand, low, high int) (int, error) {
	if high < low {
		return 0, inputError("randint", ErrInvalidRange, "low %d > high %d", low, high)
	}
	span := uint64(high) - uint64(low)
	if span == math.MaxUint64 {
		if r != nil {
			return int(r.Uint64()), nil
		}
		return int(rand.Uint64()), nil
	}
	if r != nil {
		return low + int(r.Uint64N(span+1)), nil
	}
	return low + int(rand.Uint64N(span+1)), nil
}

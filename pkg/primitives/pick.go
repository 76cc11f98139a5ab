package primitives

import (
	"math"
	"math/rand/v2"
)

// CountAll asks PickMultiple to draw a random sample size between one and the
// number of items. It sits outside the range of counts a caller can mean, so
// any other negative count is rejected.
const CountAll = math.MinInt

// PickMultiple samples count items without replacement.
//
// With CountAll the sample size itself is random in [1, len(items)] and is
// re-rolled on every call. A count of zero yields an empty slice. A count
// larger than the input returns every item in input order rather than a
// shuffled sample; callers relying on random order must keep count within
// range. The input slice is never modified.
func PickMultiple[T any](r *rand.Rand, items []T, count int) ([]T, error) {
	if count == CountAll {
		if len(items) == 0 {
			return nil, inputError("pick_multiple", ErrEmptyInput, "")
		}
		count = 1 + intN(r, len(items))
	}
	if count < 0 {
		return nil, inputError("pick_multiple", ErrInvalidCount, "count %d", count)
	}
	if count == 0 {
		return []T{}, nil
	}
	if count > len(items) {
		out := make([]T, len(items))
		copy(out, items)
		return out, nil
	}

	positions := make([]int, len(items))
	for i := range positions {
		positions[i] = i
	}
	out := make([]T, count)
	for i := 0; i < count; i++ {
		j := i + intN(r, len(positions)-i)
		positions[i], positions[j] = positions[j], positions[i]
		out[i] = items[positions[i]]
	}
	return out, nil
}

package primitives

// Permutations returns every ordered arrangement of distinct positions of
// items for each size from low to high inclusive. Sizes are emitted in
// ascending order; within a size arrangements follow lexicographic order of
// the selected positions, so permutations of ["a", "b"] at size 2 are
// ("a","b") then ("b","a").
//
// A negative low or a high below low is an error. Sizes larger than the input
// contribute nothing, and size zero contributes a single empty arrangement.
func Permutations[T any](items []T, low, high int) ([][]T, error) {
	if low < 0 || high < low {
		return nil, inputError("permutation", ErrInvalidRange, "low %d, high %d", low, high)
	}

	out := [][]T{}
	for size := low; size <= high && size <= len(items); size++ {
		out = appendPermutations(out, items, size)
	}
	return out, nil
}

func appendPermutations[T any](out [][]T, items []T, size int) [][]T {
	used := make([]bool, len(items))
	current := make([]T, 0, size)

	var walk func()
	walk = func() {
		if len(current) == size {
			arrangement := make([]T, size)
			copy(arrangement, current)
			out = append(out, arrangement)
			return
		}
		for idx := range items {
			if used[idx] {
				continue
			}
			used[idx] = true
			current = append(current, items[idx])
			walk()
			current = current[:len(current)-1]
			used[idx] = false
		}
	}
	walk()
	return out
}

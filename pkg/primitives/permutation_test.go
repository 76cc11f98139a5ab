package primitives_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-promptgen/pkg/primitives"
)

func TestPermutations(t *testing.T) {
	tests := []struct {
		name      string
		items     []string
		low, high int
		want      [][]string
	}{
		{
			name:  "sizes one and two",
			items: []string{"a", "b"},
			low:   1,
			high:  2,
			want:  [][]string{{"a"}, {"b"}, {"a", "b"}, {"b", "a"}},
		},
		{
			name:  "single size",
			items: []string{"a", "b", "c"},
			low:   2,
			high:  2,
			want: [][]string{
				{"a", "b"}, {"a", "c"},
				{"b", "a"}, {"b", "c"},
				{"c", "a"}, {"c", "b"},
			},
		},
		{
			name:  "size zero",
			items: []string{"a"},
			low:   0,
			high:  0,
			want:  [][]string{{}},
		},
		{
			name:  "oversized range contributes nothing",
			items: []string{"a", "b"},
			low:   2,
			high:  4,
			want:  [][]string{{"a", "b"}, {"b", "a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := primitives.Permutations(tt.items, tt.low, tt.high)
			if err != nil {
				t.Fatalf("permutations: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("permutations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPermutations_InvalidRange(t *testing.T) {
	for _, bounds := range [][2]int{{-1, 1}, {3, 2}} {
		_, err := primitives.Permutations([]string{"a", "b", "c"}, bounds[0], bounds[1])
		if !errors.Is(err, primitives.ErrInvalidRange) {
			t.Fatalf("bounds %v: expected ErrInvalidRange, got %v", bounds, err)
		}
	}
}

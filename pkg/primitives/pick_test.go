package primitives_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-promptgen/pkg/primitives"
)

func TestPickMultiple_Zero(t *testing.T) {
	got, err := primitives.PickMultiple(primitives.NewRand(1), []string{"a", "b", "c"}, 0)
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestPickMultiple_OversizedReturnsInputOrder(t *testing.T) {
	items := []string{"a", "b", "c"}
	got, err := primitives.PickMultiple(primitives.NewRand(1), items, 5)
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if diff := cmp.Diff(items, got); diff != "" {
		t.Fatalf("oversized pick mismatch (-want +got):\n%s", diff)
	}

	got[0] = "mutated"
	if items[0] != "a" {
		t.Fatalf("pick must not alias the input slice")
	}
}

func TestPickMultiple_DistinctPositions(t *testing.T) {
	r := primitives.NewRand(21)
	items := []string{"a", "b", "c"}
	for i := 0; i < 200; i++ {
		got, err := primitives.PickMultiple(r, items, 2)
		if err != nil {
			t.Fatalf("pick: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 items, got %v", got)
		}
		if got[0] == got[1] {
			t.Fatalf("duplicate selection %v", got)
		}
		for _, v := range got {
			if v != "a" && v != "b" && v != "c" {
				t.Fatalf("non-member %q", v)
			}
		}
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, items); diff != "" {
		t.Fatalf("input mutated (-want +got):\n%s", diff)
	}
}

func TestPickMultiple_DuplicateValuesKeepPositions(t *testing.T) {
	got, err := primitives.PickMultiple(primitives.NewRand(2), []string{"x", "x"}, 2)
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if diff := cmp.Diff([]string{"x", "x"}, got); diff != "" {
		t.Fatalf("expected both positions (-want +got):\n%s", diff)
	}
}

func TestPickMultiple_CountAllVariesSize(t *testing.T) {
	r := primitives.NewRand(13)
	items := []int{1, 2, 3, 4}
	sizes := map[int]bool{}
	for i := 0; i < 400; i++ {
		got, err := primitives.PickMultiple(r, items, primitives.CountAll)
		if err != nil {
			t.Fatalf("pick: %v", err)
		}
		if len(got) < 1 || len(got) > len(items) {
			t.Fatalf("size out of range: %d", len(got))
		}
		sizes[len(got)] = true
	}
	if len(sizes) != len(items) {
		t.Fatalf("expected every size to appear, got %v", sizes)
	}
}

func TestPickMultiple_Errors(t *testing.T) {
	if _, err := primitives.PickMultiple(primitives.NewRand(1), []string{}, primitives.CountAll); !errors.Is(err, primitives.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if _, err := primitives.PickMultiple(primitives.NewRand(1), []string{"a"}, -3); !errors.Is(err, primitives.ErrInvalidCount) {
		t.Fatalf("expected ErrInvalidCount, got %v", err)
	}
	if _, err := primitives.PickMultiple(primitives.NewRand(1), []string{"a", "b"}, -1); !errors.Is(err, primitives.ErrInvalidCount) {
		t.Fatalf("expected ErrInvalidCount for -1, got %v", err)
	}
}

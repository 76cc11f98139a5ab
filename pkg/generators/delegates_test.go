package generators_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-promptgen/pkg/generators"
	"github.com/goliatone/go-promptgen/pkg/testsupport"
)

func TestWildcard_ExpandsDefinitionWithCombinatorialGenerator(t *testing.T) {
	def := generators.WildcardDefinition{Name: "colors", Ref: "__colors__"}
	resolver := testsupport.StubResolver{Definitions: map[string]generators.WildcardDefinition{"colors": def}}
	combinatorial := testsupport.NewStubGenerator(map[string][]string{"__colors__": {"red", "blue", "red"}})

	got, err := generators.Wildcard(testsupport.Context(), testsupport.Collaborators(resolver, nil, combinatorial), "colors")
	if err != nil {
		t.Fatalf("wildcard: %v", err)
	}
	if diff := cmp.Diff([]string{"red", "blue", "red"}, got); diff != "" {
		t.Fatalf("wildcard mismatch (-want +got):\n%s", diff)
	}
	if combinatorial.CallCount() != 1 {
		t.Fatalf("expected one generate call, got %d", combinatorial.CallCount())
	}
	if gotDef, ok := combinatorial.Calls[0].(generators.WildcardDefinition); !ok || gotDef != def {
		t.Fatalf("generator should receive the resolved definition, got %#v", combinatorial.Calls[0])
	}
}

func TestRandomSample_TakesOnlyFirstValue(t *testing.T) {
	random := testsupport.NewStubGenerator(map[string][]string{"a {b|c}": {"a b", "a c"}})
	random.Repeat = true

	got, err := generators.RandomSample(testsupport.Context(), testsupport.Collaborators(nil, random, nil), "a {b|c}")
	if err != nil {
		t.Fatalf("random sample: %v", err)
	}
	if got != "a b" {
		t.Fatalf("expected first sample, got %q", got)
	}
	if random.YieldCount() != 1 {
		t.Fatalf("expected exactly one value drawn, got %d", random.YieldCount())
	}
}

func TestRandomSample_EmptyExpansion(t *testing.T) {
	random := testsupport.NewStubGenerator(nil)

	_, err := generators.RandomSample(testsupport.Context(), testsupport.Collaborators(nil, random, nil), "nothing")
	if !errors.Is(err, generators.ErrNoSampleAvailable) {
		t.Fatalf("expected ErrNoSampleAvailable, got %v", err)
	}
}

func TestAllCombinations(t *testing.T) {
	combinatorial := testsupport.NewStubGenerator(map[string][]string{"{x|y} z": {"x z", "y z"}})

	got, err := generators.AllCombinations(testsupport.Context(), testsupport.Collaborators(nil, nil, combinatorial), "{x|y} z")
	if err != nil {
		t.Fatalf("all combinations: %v", err)
	}
	if diff := cmp.Diff([]string{"x z", "y z"}, got); diff != "" {
		t.Fatalf("combinations mismatch (-want +got):\n%s", diff)
	}
}

func TestDelegates_MissingCollaborators(t *testing.T) {
	ctx := testsupport.Context()
	noGenerators := generators.Collaborators{Wildcards: testsupport.StubResolver{}}
	onlyRandom := testsupport.Collaborators(testsupport.StubResolver{}, testsupport.NewStubGenerator(nil), nil)

	tests := []struct {
		name string
		call func() error
		want string
	}{
		{
			name: "wildcard without generators",
			call: func() error { _, err := generators.Wildcard(ctx, noGenerators, "colors"); return err },
			want: "generators",
		},
		{
			name: "random sample without generators",
			call: func() error { _, err := generators.RandomSample(ctx, noGenerators, "p"); return err },
			want: "generators",
		},
		{
			name: "all combinations without generators",
			call: func() error { _, err := generators.AllCombinations(ctx, noGenerators, "p"); return err },
			want: "generators",
		},
		{
			name: "wildcard without resolver",
			call: func() error { _, err := generators.Wildcard(ctx, generators.Collaborators{}, "colors"); return err },
			want: "wildcard_manager",
		},
		{
			name: "combinatorial entry missing",
			call: func() error { _, err := generators.AllCombinations(ctx, onlyRandom, "p"); return err },
			want: "generators.combinatorial",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var missing *generators.MissingCollaboratorError
			if !errors.As(err, &missing) {
				t.Fatalf("expected MissingCollaboratorError, got %v", err)
			}
			if missing.Name != tt.want {
				t.Fatalf("expected missing %q, got %q", tt.want, missing.Name)
			}
			if !errors.Is(err, generators.ErrMissingCollaborator) {
				t.Fatalf("expected errors.Is match on ErrMissingCollaborator")
			}
		})
	}
}

func TestCollaborators_Merge(t *testing.T) {
	base := testsupport.Collaborators(testsupport.StubResolver{}, testsupport.NewStubGenerator(nil), nil)
	override := generators.Collaborators{Generators: generators.Table{
		generators.StrategyCombinatorial: testsupport.NewStubGenerator(nil),
	}}

	merged := base.Merge(override)
	if _, err := merged.Generator(generators.StrategyRandom); err != nil {
		t.Fatalf("random generator lost during merge: %v", err)
	}
	if _, err := merged.Generator(generators.StrategyCombinatorial); err != nil {
		t.Fatalf("combinatorial generator not merged: %v", err)
	}
	if _, err := merged.WildcardResolver(); err != nil {
		t.Fatalf("resolver lost during merge: %v", err)
	}
	if len(base.Generators) != 1 {
		t.Fatalf("merge must not mutate the receiver table")
	}
}

package generators

import (
	"context"
	"fmt"
)

// Wildcard resolves name and returns every value the combinatorial generator
// produces for it, in the generator's order. Duplicates are kept.
func Wildcard(ctx context.Context, c Collaborators, name string) ([]string, error) {
	resolver, err := c.WildcardResolver()
	if err != nil {
		return nil, err
	}
	gen, err := c.Generator(StrategyCombinatorial)
	if err != nil {
		return nil, err
	}

	def, err := resolver.ToWildcard(name)
	if err != nil {
		return nil, fmt.Errorf("generators: resolve wildcard %q: %w", name, err)
	}
	return collect(ctx, gen, def)
}

// RandomSample draws exactly one value from the random generator.
func RandomSample(ctx context.Context, c Collaborators, prompt string) (string, error) {
	gen, err := c.Generator(StrategyRandom)
	if err != nil {
		return "", err
	}

	seq, err := gen.Generate(ctx, Prompt(prompt))
	if err != nil {
		return "", fmt.Errorf("generators: random sample: %w", err)
	}
	if seq == nil {
		return "", ErrNoSampleAvailable
	}
	for value := range seq {
		return value, nil
	}
	return "", ErrNoSampleAvailable
}

// AllCombinations returns every value the combinatorial generator produces
// for prompt.
func AllCombinations(ctx context.Context, c Collaborators, prompt string) ([]string, error) {
	gen, err := c.Generator(StrategyCombinatorial)
	if err != nil {
		return nil, err
	}
	return collect(ctx, gen, Prompt(prompt))
}

func collect(ctx context.Context, gen Generator, input Input) ([]string, error) {
	seq, err := gen.Generate(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("generators: expand %q: %w", input.Text(), err)
	}
	out := []string{}
	if seq == nil {
		return out, nil
	}
	for value := range seq {
		out = append(out, value)
	}
	return out, nil
}

package generators

import (
	"context"
	"iter"
	"strings"
)

// Generation strategy names used as keys in a Table.
const (
	StrategyRandom        = "random"
	StrategyCombinatorial = "combinatorial"
)

// Collaborator names reported by MissingCollaboratorError.
const (
	CollaboratorWildcards  = "wildcard_manager"
	CollaboratorGenerators = "generators"
)

// Input is what a Generator expands: either a Prompt or a WildcardDefinition.
type Input interface {
	Text() string
}

// Prompt is a template fragment handed to a generator verbatim.
type Prompt string

// Text implements Input.
func (p Prompt) Text() string { return string(p) }

// WildcardDefinition is the resolved form of a wildcard name, e.g. "colors"
// resolved to the reference "__colors__".
type WildcardDefinition struct {
	// Name is the bare wildcard name without wrap markers.
	Name string
	// Ref is the wrapped reference understood by generators.
	Ref string
}

// Text implements Input.
func (d WildcardDefinition) Text() string {
	if d.Ref != "" {
		return d.Ref
	}
	return d.Name
}

// WildcardResolver turns a wildcard name into a definition generators can
// expand.
type WildcardResolver interface {
	ToWildcard(name string) (WildcardDefinition, error)
}

// Generator expands an input into produced values. Sequences may be lazy or
// unbounded; callers only ever range over them or stop after the first value.
type Generator interface {
	Generate(ctx context.Context, input Input) (iter.Seq[string], error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, input Input) (iter.Seq[string], error)

// Generate implements Generator.
func (fn GeneratorFunc) Generate(ctx context.Context, input Input) (iter.Seq[string], error) {
	return fn(ctx, input)
}

// Table maps strategy names to generators.
type Table map[string]Generator

// Collaborators bundles the external capabilities the delegating primitives
// need. A zero value is valid; missing members are reported when a primitive
// actually uses them.
type Collaborators struct {
	Wildcards  WildcardResolver
	Generators Table
}

// Merge returns c with any member set on override replacing it. Generator
// entries are merged key by key.
func (c Collaborators) Merge(override Collaborators) Collaborators {
	out := Collaborators{Wildcards: c.Wildcards}
	if override.Wildcards != nil {
		out.Wildcards = override.Wildcards
	}
	if c.Generators == nil && override.Generators == nil {
		return out
	}
	out.Generators = make(Table, len(c.Generators)+len(override.Generators))
	for name, gen := range c.Generators {
		out.Generators[name] = gen
	}
	for name, gen := range override.Generators {
		if gen == nil {
			continue
		}
		out.Generators[name] = gen
	}
	return out
}

// WildcardResolver returns the configured resolver or a
// MissingCollaboratorError.
func (c Collaborators) WildcardResolver() (WildcardResolver, error) {
	if c.Wildcards == nil {
		return nil, &MissingCollaboratorError{Name: CollaboratorWildcards}
	}
	return c.Wildcards, nil
}

// Generator returns the generator registered for strategy or a
// MissingCollaboratorError naming what is absent.
func (c Collaborators) Generator(strategy string) (Generator, error) {
	if c.Generators == nil {
		return nil, &MissingCollaboratorError{Name: CollaboratorGenerators}
	}
	strategy = strings.TrimSpace(strategy)
	gen, ok := c.Generators[strategy]
	if !ok || gen == nil {
		return nil, &MissingCollaboratorError{Name: CollaboratorGenerators + "." + strategy}
	}
	return gen, nil
}

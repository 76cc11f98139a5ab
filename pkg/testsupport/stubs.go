package testsupport

import (
	"context"
	"iter"
	"slices"
	"sync"

	"github.com/goliatone/go-promptgen/pkg/generators"
)

// StubResolver maps wildcard names to fixed definitions. Unknown names resolve
// to a definition wrapped with "__" so generators can still key on them.
type StubResolver struct {
	Definitions map[string]generators.WildcardDefinition
	Err         error
}

// ToWildcard implements generators.WildcardResolver.
func (s StubResolver) ToWildcard(name string) (generators.WildcardDefinition, error) {
	if s.Err != nil {
		return generators.WildcardDefinition{}, s.Err
	}
	if def, ok := s.Definitions[name]; ok {
		return def, nil
	}
	return generators.WildcardDefinition{Name: name, Ref: "__" + name + "__"}, nil
}

// StubGenerator returns canned values keyed by the input text and records the
// inputs it was asked to expand.
type StubGenerator struct {
	mu      sync.Mutex
	Values  map[string][]string
	Err     error
	Repeat  bool
	Calls   []generators.Input
	Yielded int
}

// NewStubGenerator builds a generator returning values for each input text.
func NewStubGenerator(values map[string][]string) *StubGenerator {
	return &StubGenerator{Values: values}
}

// Generate implements generators.Generator. When Repeat is set the canned
// values cycle forever, mimicking an unbounded random sampler.
func (s *StubGenerator) Generate(_ context.Context, input generators.Input) (iter.Seq[string], error) {
	s.mu.Lock()
	s.Calls = append(s.Calls, input)
	err := s.Err
	values := slices.Clone(s.Values[input.Text()])
	repeat := s.Repeat
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return func(yield func(string) bool) {
		for {
			for _, value := range values {
				s.mu.Lock()
				s.Yielded++
				s.mu.Unlock()
				if !yield(value) {
					return
				}
			}
			if !repeat || len(values) == 0 {
				return
			}
		}
	}, nil
}

// CallCount returns how many times Generate ran.
func (s *StubGenerator) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}

// YieldCount returns how many values consumers pulled from the sequences.
func (s *StubGenerator) YieldCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Yielded
}

// Collaborators wires the resolver and generators into a Collaborators value.
func Collaborators(resolver generators.WildcardResolver, random, combinatorial generators.Generator) generators.Collaborators {
	table := generators.Table{}
	if random != nil {
		table[generators.StrategyRandom] = random
	}
	if combinatorial != nil {
		table[generators.StrategyCombinatorial] = combinatorial
	}
	return generators.Collaborators{Wildcards: resolver, Generators: table}
}

package wildcards

import (
	"context"
	"fmt"
	"iter"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/goliatone/go-promptgen/pkg/generators"
	"github.com/goliatone/go-promptgen/pkg/primitives"
)

// candidates returns the values a prompt can expand to. Only a bare wildcard
// reference or text without any wildcard or variant markup is understood.
func (m *Manager) candidates(input generators.Input) ([]string, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: nil input", ErrUnsupportedPrompt)
	}
	text := strings.TrimSpace(input.Text())
	if m.IsWildcard(text) {
		inner := strings.TrimSuffix(strings.TrimPrefix(text, m.wrap), m.wrap)
		if !strings.Contains(inner, m.wrap) {
			return m.AllValues(text), nil
		}
	}
	if strings.Contains(text, m.wrap) || strings.ContainsAny(text, "{}") {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPrompt, text)
	}
	return []string{text}, nil
}

// CombinatorialGenerator yields every value of a wildcard once, in sorted
// order. Literal prompts yield themselves.
type CombinatorialGenerator struct {
	manager *Manager
}

// NewCombinatorialGenerator returns a generator backed by m.
func NewCombinatorialGenerator(m *Manager) *CombinatorialGenerator {
	return &CombinatorialGenerator{manager: m}
}

// Generate implements generators.Generator.
func (g *CombinatorialGenerator) Generate(ctx context.Context, input generators.Input) (iter.Seq[string], error) {
	values, err := g.manager.candidates(input)
	if err != nil {
		return nil, err
	}
	return func(yield func(string) bool) {
		for _, value := range values {
			if ctx.Err() != nil || !yield(value) {
				return
			}
		}
	}, nil
}

// RandomGenerator yields an endless stream of values drawn uniformly from a
// wildcard. Consumers stop it by breaking out of the range loop or by
// cancelling the context. An empty wildcard yields nothing.
//
// Values are drawn from the random source carried by the Generate context
// when there is one, which is how a render pass keeps random_sample on its
// seeded stream. Otherwise the generator's own source is used.
type RandomGenerator struct {
	manager *Manager

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomGenerator returns a generator backed by m. rng is the fallback for
// contexts without a pass random source; nil means the global source.
func NewRandomGenerator(m *Manager, rng *rand.Rand) *RandomGenerator {
	return &RandomGenerator{manager: m, rng: rng}
}

// Generate implements generators.Generator.
func (g *RandomGenerator) Generate(ctx context.Context, input generators.Input) (iter.Seq[string], error) {
	values, err := g.manager.candidates(input)
	if err != nil {
		return nil, err
	}
	passRand, fromPass := generators.RandFromContext(ctx)
	return func(yield func(string) bool) {
		if len(values) == 0 {
			return
		}
		for ctx.Err() == nil {
			var (
				value string
				err   error
			)
			if fromPass {
				value, err = primitives.Choice(passRand, values...)
			} else {
				g.mu.Lock()
				value, err = primitives.Choice(g.rng, values...)
				g.mu.Unlock()
			}
			if err != nil || !yield(value) {
				return
			}
		}
	}, nil
}

// Collaborators wires m and both generators into a collaborator set. rng only
// serves random draws made outside a render pass.
func Collaborators(m *Manager, rng *rand.Rand) generators.Collaborators {
	return generators.Collaborators{
		Wildcards: m,
		Generators: generators.Table{
			generators.StrategyRandom:        NewRandomGenerator(m, rng),
			generators.StrategyCombinatorial: NewCombinatorialGenerator(m),
		},
	}
}

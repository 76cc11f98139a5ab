package functions

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-promptgen/pkg/generators"
)

// Env is the per-pass state a template function can read. render.Session
// implements it.
type Env interface {
	Context() context.Context
	Rand() *rand.Rand
	Collaborators() generators.Collaborators
}

// Func is a template-callable primitive. Arguments arrive exactly as the
// template evaluated them.
type Func func(env Env, args []*pongo2.Value) (any, error)

// Registry stores template functions by name, providing discovery and
// duplication safeguards.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry creates a registry holding the builtin functions.
func NewRegistry() *Registry {
	return &Registry{funcs: Builtins()}
}

// Register adds a function. Duplicate names return an error.
func (r *Registry) Register(name string, fn Func) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("functions: name is required")
	}
	if fn == nil {
		return fmt.Errorf("functions: function %q is nil", trimmed)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.funcs == nil {
		r.funcs = make(map[string]Func)
	}
	if _, exists := r.funcs[trimmed]; exists {
		return fmt.Errorf("functions: %q already registered", trimmed)
	}
	r.funcs[trimmed] = fn
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(name string, fn Func) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Get retrieves a function by name.
func (r *Registry) Get(name string) (Func, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.funcs[name]
	if !ok {
		return nil, fmt.Errorf("functions: %q not found", name)
	}
	return fn, nil
}

// List returns a sorted list of function names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a function is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.funcs[name]
	return ok
}

// Bind returns the registry as pongo2-callable globals tied to env. Every
// error a function returns is passed to onError before pongo2 sees it, so the
// caller can keep the original error value once pongo2 has wrapped it.
func (r *Registry) Bind(env Env, onError func(name string, err error)) map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]any, len(r.funcs))
	for name, fn := range r.funcs {
		out[name] = func(args ...*pongo2.Value) (*pongo2.Value, error) {
			result, err := fn(env, args)
			if err != nil {
				if onError != nil {
					onError(name, err)
				}
				return pongo2.AsValue(nil), err
			}
			return pongo2.AsValue(result), nil
		}
	}
	return out
}

// Package promptgen renders prompt templates. Templates use pongo2 syntax with
// randomized choice functions, wildcard expansion through pluggable
// generators, and a {% prompt %} block tag that records each rendered block.
//
// The root package aliases the types most callers need and wires the common
// engine setups; pkg/render/template/pongo exposes the full option set.
package promptgen

import (
	"context"
	"math/rand/v2"

	"github.com/goliatone/go-promptgen/pkg/generators"
	"github.com/goliatone/go-promptgen/pkg/render"
	"github.com/goliatone/go-promptgen/pkg/render/template/pongo"
	"github.com/goliatone/go-promptgen/pkg/wildcards"
)

// RenderOptions carries per-render overrides: seed or random source, extra
// collaborators and a caller-owned prompt block collection.
type RenderOptions = render.RenderOptions

// Result is the output of one render pass.
type Result = render.Result

// Collaborators aliases generators.Collaborators for callers wiring their own
// wildcard resolver or generators.
type Collaborators = generators.Collaborators

// Engine aliases the pongo2-backed renderer.
type Engine = pongo.Engine

// NewEngine exposes the engine constructor from the top-level module.
func NewEngine(options ...pongo.Option) (*Engine, error) {
	return pongo.New(options...)
}

// WithWildcards backs the wildcard, random_sample and all_combinations
// functions with a wildcard directory. Inside a render random samples follow
// the pass random source, so engine and per-render seeds apply to them; rng
// only serves draws made outside a render and may be nil.
func WithWildcards(manager *wildcards.Manager, rng *rand.Rand) pongo.Option {
	return pongo.WithCollaborators(wildcards.Collaborators(manager, rng))
}

// NewWildcardEngine builds an engine whose delegating functions read from the
// wildcard directory dir.
func NewWildcardEngine(dir string, options ...pongo.Option) (*Engine, error) {
	opts := append([]pongo.Option{WithWildcards(wildcards.New(dir), nil)}, options...)
	return pongo.New(opts...)
}

// RenderString renders template source once with a throwaway engine. It is the
// simplest entry point for one-off prompts.
func RenderString(ctx context.Context, source string, data any, options ...pongo.Option) (Result, error) {
	engine, err := pongo.New(options...)
	if err != nil {
		return Result{}, err
	}
	return engine.RenderString(ctx, source, data, RenderOptions{})
}

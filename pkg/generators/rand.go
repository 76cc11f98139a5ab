package generators

import (
	"context"
	"math/rand/v2"
)

type randKey struct{}

// ContextWithRand attaches the random source of a render pass to ctx, so
// generators draw from the same seeded stream as the template functions.
func ContextWithRand(ctx context.Context, r *rand.Rand) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if r == nil {
		return ctx
	}
	return context.WithValue(ctx, randKey{}, r)
}

// RandFromContext returns the pass random source carried by ctx, if any.
func RandFromContext(ctx context.Context) (*rand.Rand, bool) {
	if ctx == nil {
		return nil, false
	}
	r, ok := ctx.Value(randKey{}).(*rand.Rand)
	return r, ok && r != nil
}

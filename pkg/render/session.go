package render

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-promptgen/pkg/generators"
)

// Session is the state owned by a single render pass: its random source, the
// collaborators delegating primitives call, and the prompt blocks captured so
// far. A Session must not be shared between concurrent renders.
type Session struct {
	id            string
	ctx           context.Context
	rng           *rand.Rand
	collaborators generators.Collaborators
	blocks        *Blocks

	mu  sync.Mutex
	err error
}

// NewSession prepares a pass. A nil blocks collection is replaced with a fresh
// one; a nil rng leaves primitives on the process-wide source. The pass context
// carries rng so generators share the pass random stream.
func NewSession(ctx context.Context, rng *rand.Rand, collaborators generators.Collaborators, blocks *Blocks) *Session {
	if ctx == nil {
		ctx = context.Background()
	}
	if blocks == nil {
		blocks = NewBlocks()
	}
	ctx = generators.ContextWithRand(ctx, rng)
	return &Session{
		id:            uuid.NewString(),
		ctx:           ctx,
		rng:           rng,
		collaborators: collaborators,
		blocks:        blocks,
	}
}

// ID identifies the pass in logs and results.
func (s *Session) ID() string { return s.id }

// Context returns the context the pass was started with.
func (s *Session) Context() context.Context { return s.ctx }

// Rand returns the pass random source.
func (s *Session) Rand() *rand.Rand { return s.rng }

// Collaborators returns the generators and wildcard resolver for the pass.
func (s *Session) Collaborators() generators.Collaborators { return s.collaborators }

// Blocks returns the prompt block collection for the pass.
func (s *Session) Blocks() *Blocks { return s.blocks }

// RecordError keeps the first error raised by a primitive so the engine can
// report it with its original type once the template aborts.
func (s *Session) RecordError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
}

// Err returns the first recorded primitive error.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

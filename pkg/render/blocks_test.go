package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-promptgen/pkg/generators"
	"github.com/goliatone/go-promptgen/pkg/primitives"
	"github.com/goliatone/go-promptgen/pkg/render"
	"github.com/goliatone/go-promptgen/pkg/testsupport"
)

func TestBlocks_AppendOrderAndCopy(t *testing.T) {
	blocks := render.NewBlocks()
	blocks.Append("first")
	blocks.Append("second")

	values := blocks.Values()
	if diff := cmp.Diff([]string{"first", "second"}, values); diff != "" {
		t.Fatalf("blocks mismatch (-want +got):\n%s", diff)
	}

	values[0] = "changed"
	if got := blocks.Values()[0]; got != "first" {
		t.Fatalf("Values must return a copy, got %q", got)
	}

	blocks.Reset()
	if blocks.Len() != 0 {
		t.Fatalf("expected empty collection after reset, got %d", blocks.Len())
	}
}

func TestSession_Defaults(t *testing.T) {
	session := render.NewSession(testsupport.Context(), nil, testsupport.Collaborators(nil, nil, nil), nil)
	if session.ID() == "" {
		t.Fatalf("expected a session id")
	}
	if session.Blocks() == nil || session.Blocks().Len() != 0 {
		t.Fatalf("expected a fresh empty block collection")
	}

	other := render.NewSession(testsupport.Context(), nil, testsupport.Collaborators(nil, nil, nil), nil)
	if other.ID() == session.ID() {
		t.Fatalf("session ids must be unique")
	}
}

func TestSession_ContextCarriesPassRand(t *testing.T) {
	rng := primitives.NewRand(3)
	session := render.NewSession(testsupport.Context(), rng, testsupport.Collaborators(nil, nil, nil), nil)
	got, ok := generators.RandFromContext(session.Context())
	if !ok || got != rng {
		t.Fatalf("expected the pass rng on the session context")
	}

	bare := render.NewSession(testsupport.Context(), nil, testsupport.Collaborators(nil, nil, nil), nil)
	if _, ok := generators.RandFromContext(bare.Context()); ok {
		t.Fatalf("expected no rng on the context of a session without one")
	}
}

func TestSession_RecordErrorKeepsFirst(t *testing.T) {
	session := render.NewSession(testsupport.Context(), primitives.NewRand(1), testsupport.Collaborators(nil, nil, nil), nil)
	first := errors.New("first")
	session.RecordError(nil)
	session.RecordError(first)
	session.RecordError(errors.New("second"))

	if !errors.Is(session.Err(), first) {
		t.Fatalf("expected first error to be kept, got %v", session.Err())
	}
}

func TestError_Format(t *testing.T) {
	cause := errors.New("boom")
	err := &render.Error{Template: "hello.tpl", Line: 3, Column: 7, Err: cause}
	if got, want := err.Error(), `render: template "hello.tpl" line 3 col 7: boom`; got != want {
		t.Fatalf("error message mismatch\nwant: %q\n got: %q", want, got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("render error must unwrap to its cause")
	}
}

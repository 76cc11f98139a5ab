package render

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoBlockCollection is returned when a prompt block executes in a context
// that does not carry a Blocks collection, e.g. a template executed outside
// the engine.
var ErrNoBlockCollection = errors.New("render: prompt block collection missing from context")

// Error locates a render failure in its template. Err carries the underlying
// cause, which is the primitive's own error when one aborted the pass.
type Error struct {
	Template string
	Line     int
	Column   int
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("render")
	if name := strings.TrimSpace(e.Template); name != "" {
		fmt.Fprintf(&b, ": template %q", name)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " line %d", e.Line)
		if e.Column > 0 {
			fmt.Fprintf(&b, " col %d", e.Column)
		}
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

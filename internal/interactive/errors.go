package interactive

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("interactive: aborted")
	// ErrNoRenderer is returned when a render is requested without a render
	// function configured.
	ErrNoRenderer = errors.New("interactive: no renderer configured")
)

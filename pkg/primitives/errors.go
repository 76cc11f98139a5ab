package primitives

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when a primitive receives no candidates.
	ErrEmptyInput = errors.New("primitives: empty candidate set")
	// ErrInvalidWeight is returned for negative, non-finite or all-zero weights.
	ErrInvalidWeight = errors.New("primitives: invalid weight")
	// ErrInvalidCount is returned for negative sample sizes other than CountAll.
	ErrInvalidCount = errors.New("primitives: invalid count")
	// ErrInvalidRange is returned when a lower bound exceeds its upper bound or
	// is negative.
	ErrInvalidRange = errors.New("primitives: invalid range")
	// ErrInvalidArgument is returned when a template argument cannot be
	// converted to the type a primitive expects.
	ErrInvalidArgument = errors.New("primitives: invalid argument")
)

// InputError records which primitive rejected its arguments. Err is always one
// of the sentinel errors above so callers can match with errors.Is.
type InputError struct {
	Func   string
	Detail string
	Err    error
}

func (e *InputError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Func, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Func, e.Err, e.Detail)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

func inputError(fn string, err error, format string, args ...any) error {
	detail := ""
	if format != "" {
		detail = fmt.Sprintf(format, args...)
	}
	return &InputError{Func: fn, Detail: detail, Err: err}
}

package functions

import (
	"fmt"
	"math"
	"reflect"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-promptgen/pkg/primitives"
)

func invalid(fn, format string, args ...any) error {
	return &primitives.InputError{
		Func:   fn,
		Detail: fmt.Sprintf(format, args...),
		Err:    primitives.ErrInvalidArgument,
	}
}

func arity(fn, want string, got int) error {
	return invalid(fn, "expected %s arguments, got %d", want, got)
}

func interfaces(args []*pongo2.Value) []any {
	out := make([]any, len(args))
	for idx, arg := range args {
		out[idx] = unwrap(arg)
	}
	return out
}

func unwrap(v any) any {
	for {
		value, ok := v.(*pongo2.Value)
		if !ok {
			return v
		}
		if value == nil {
			return nil
		}
		v = value.Interface()
	}
}

// sequence converts slices and arrays to []any; ok is false for anything else,
// strings included.
func sequence(v any) ([]any, bool) {
	v = unwrap(v)
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = unwrap(rv.Index(i).Interface())
	}
	return out, true
}

func toSlice(fn string, arg *pongo2.Value) ([]any, error) {
	items, ok := sequence(arg)
	if !ok {
		return nil, invalid(fn, "expected a list, got %T", unwrap(arg))
	}
	return items, nil
}

func toInt(fn string, arg *pongo2.Value) (int, error) {
	if arg == nil || arg.IsNil() {
		return 0, invalid(fn, "expected an integer, got nil")
	}
	if arg.IsInteger() {
		return arg.Integer(), nil
	}
	if arg.IsFloat() {
		f := arg.Float()
		if f == math.Trunc(f) && !math.IsInf(f, 0) {
			return int(f), nil
		}
	}
	return 0, invalid(fn, "expected an integer, got %v", arg.Interface())
}

func toFloat(fn string, v any) (float64, error) {
	rv := reflect.ValueOf(unwrap(v))
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	default:
		return 0, invalid(fn, "expected a numeric weight, got %T", unwrap(v))
	}
}

// isAllSentinel reports whether a count argument asks for a random count.
func isAllSentinel(arg *pongo2.Value) bool {
	if arg == nil || arg.IsNil() {
		return true
	}
	return arg.IsBool() && arg.Bool()
}

func singleString(fn string, args []*pongo2.Value) (string, error) {
	if len(args) != 1 {
		return "", arity(fn, "1", len(args))
	}
	if args[0] == nil || args[0].IsNil() {
		return "", invalid(fn, "expected a string, got nil")
	}
	return args[0].String(), nil
}

func weightedPairs(fn string, args []*pongo2.Value) ([]primitives.Weighted[any], error) {
	if len(args) == 0 {
		// Let the primitive report the empty candidate set.
		return nil, nil
	}

	values := interfaces(args)
	if len(values) == 1 {
		if list, ok := sequence(values[0]); ok && allPairs(list) {
			values = list
		}
	}

	if allPairs(values) {
		out := make([]primitives.Weighted[any], 0, len(values))
		for _, raw := range values {
			pair, _ := sequence(raw)
			weight, err := toFloat(fn, pair[1])
			if err != nil {
				return nil, err
			}
			out = append(out, primitives.Weighted[any]{Value: pair[0], Weight: weight})
		}
		return out, nil
	}

	if len(values)%2 != 0 {
		return nil, invalid(fn, "expected (value, weight) pairs")
	}
	out := make([]primitives.Weighted[any], 0, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		weight, err := toFloat(fn, values[i+1])
		if err != nil {
			return nil, err
		}
		out = append(out, primitives.Weighted[any]{Value: values[i], Weight: weight})
	}
	return out, nil
}

func allPairs(values []any) bool {
	if len(values) == 0 {
		return false
	}
	for _, value := range values {
		pair, ok := sequence(value)
		if !ok || len(pair) != 2 {
			return false
		}
	}
	return true
}

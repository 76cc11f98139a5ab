package functions

import (
	"fmt"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-promptgen/pkg/generators"
	"github.com/goliatone/go-promptgen/pkg/primitives"
)

// Builtin function names.
const (
	NameChoice          = "choice"
	NameWeightedChoice  = "weighted_choice"
	NameFlipCoin        = "flip_coin"
	NamePickMultiple    = "pick_multiple"
	NamePermutation     = "permutation"
	NamePermutations    = "permutations"
	NameRandom          = "random"
	NameRandInt         = "randint"
	NameWildcard        = "wildcard"
	NameRandomSample    = "random_sample"
	NameAllCombinations = "all_combinations"
)

var builtins = map[string]Func{
	NameChoice:          choice,
	NameWeightedChoice:  weightedChoice,
	NameFlipCoin:        flipCoin,
	NamePickMultiple:    pickMultiple,
	NamePermutation:     permutation,
	NamePermutations:    permutation,
	NameRandom:          random,
	NameRandInt:         randInt,
	NameWildcard:        wildcard,
	NameRandomSample:    randomSample,
	NameAllCombinations: allCombinations,
}

// Builtins returns a copy of the builtin function table.
func Builtins() map[string]Func {
	out := make(map[string]Func, len(builtins))
	for name, fn := range builtins {
		out[name] = fn
	}
	return out
}

// choice picks one of its arguments. A single list argument is treated as the
// candidate set, since templates cannot spread a list into arguments.
func choice(env Env, args []*pongo2.Value) (any, error) {
	values := interfaces(args)
	if len(values) == 1 {
		if list, ok := sequence(values[0]); ok {
			values = list
		}
	}
	return primitives.Choice(env.Rand(), values...)
}

// weightedChoice accepts (value, weight) pairs, a single list of pairs, or
// flat alternating value, weight arguments.
func weightedChoice(env Env, args []*pongo2.Value) (any, error) {
	pairs, err := weightedPairs(NameWeightedChoice, args)
	if err != nil {
		return nil, err
	}
	return primitives.WeightedChoice(env.Rand(), pairs...)
}

func flipCoin(env Env, args []*pongo2.Value) (any, error) {
	var first, second any = true, false
	switch len(args) {
	case 0:
	case 1:
		first = args[0].Interface()
	case 2:
		first, second = args[0].Interface(), args[1].Interface()
	default:
		return nil, arity(NameFlipCoin, "at most 2", len(args))
	}
	return primitives.FlipCoin(env.Rand(), first, second), nil
}

// pickMultiple(items, count) where an omitted, nil or true count means a
// random number of items. Negative counts are rejected.
func pickMultiple(env Env, args []*pongo2.Value) (any, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, arity(NamePickMultiple, "1 or 2", len(args))
	}
	items, err := toSlice(NamePickMultiple, args[0])
	if err != nil {
		return nil, err
	}

	count := primitives.CountAll
	if len(args) == 2 && !isAllSentinel(args[1]) {
		count, err = toInt(NamePickMultiple, args[1])
		if err != nil {
			return nil, err
		}
		if count < 0 {
			return nil, &primitives.InputError{
				Func:   NamePickMultiple,
				Detail: fmt.Sprintf("count %d", count),
				Err:    primitives.ErrInvalidCount,
			}
		}
	}
	return primitives.PickMultiple(env.Rand(), items, count)
}

// permutation(items, low, high) where high defaults to low.
func permutation(_ Env, args []*pongo2.Value) (any, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, arity(NamePermutation, "2 or 3", len(args))
	}
	items, err := toSlice(NamePermutation, args[0])
	if err != nil {
		return nil, err
	}
	low, err := toInt(NamePermutation, args[1])
	if err != nil {
		return nil, err
	}
	high := low
	if len(args) == 3 && !args[2].IsNil() {
		high, err = toInt(NamePermutation, args[2])
		if err != nil {
			return nil, err
		}
	}
	return primitives.Permutations(items, low, high)
}

func random(env Env, args []*pongo2.Value) (any, error) {
	if len(args) != 0 {
		return nil, arity(NameRandom, "0", len(args))
	}
	return primitives.Random(env.Rand()), nil
}

func randInt(env Env, args []*pongo2.Value) (any, error) {
	if len(args) != 2 {
		return nil, arity(NameRandInt, "2", len(args))
	}
	low, err := toInt(NameRandInt, args[0])
	if err != nil {
		return nil, err
	}
	high, err := toInt(NameRandInt, args[1])
	if err != nil {
		return nil, err
	}
	return primitives.RandInt(env.Rand(), low, high)
}

func wildcard(env Env, args []*pongo2.Value) (any, error) {
	name, err := singleString(NameWildcard, args)
	if err != nil {
		return nil, err
	}
	return generators.Wildcard(env.Context(), env.Collaborators(), name)
}

func randomSample(env Env, args []*pongo2.Value) (any, error) {
	prompt, err := singleString(NameRandomSample, args)
	if err != nil {
		return nil, err
	}
	return generators.RandomSample(env.Context(), env.Collaborators(), prompt)
}

func allCombinations(env Env, args []*pongo2.Value) (any, error) {
	prompt, err := singleString(NameAllCombinations, args)
	if err != nil {
		return nil, err
	}
	return generators.AllCombinations(env.Context(), env.Collaborators(), prompt)
}

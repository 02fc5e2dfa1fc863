package stream

import (
	"errors"
	"fmt"

	"github.com/drakos74/mantis/internal/math/ml"
)

var UnknownErr = errors.New("unknown")

var sources = map[string]func(seed int64) Source{
	"sine": func(seed int64) Source {
		return Sine{}
	},
	"single_user_day_job": func(seed int64) Source {
		return SingleUserDayJob(seed)
	},
	"two_user_overlap": func(seed int64) Source {
		return TwoUserOverlap(seed)
	},
}

// adjuster is a registered adjuster with the smallest output it can handle.
type adjuster struct {
	adjust ml.Adjuster
	size   int
}

var adjusters = map[string]adjuster{
	"none":      {adjust: None, size: 1},
	"user_auth": {adjust: UserAuth, size: UserAuthSize},
}

// interpreter is a registered interpreter with the smallest output it can handle.
type interpreter struct {
	interpret ml.Interpreter
	size      int
}

var interpreters = map[string]interpreter{
	"basic":     {interpret: Basic, size: 1},
	"user_auth": {interpret: UserAuthEvent, size: UserAuthSize},
}

// NewSource returns the source registered under the given name.
func NewSource(name string, seed int64) (Source, error) {
	if s, ok := sources[name]; ok {
		return s(seed), nil
	}
	return nil, fmt.Errorf("source '%s': %w", name, UnknownErr)
}

// NewAdjuster returns the output adjuster registered under the given name, none if empty.
// size is the width of the outputs it will be given.
func NewAdjuster(name string, size int) (ml.Adjuster, error) {
	if name == "" {
		name = "none"
	}
	a, ok := adjusters[name]
	if !ok {
		return nil, fmt.Errorf("adjuster '%s': %w", name, UnknownErr)
	}
	if size < a.size {
		return nil, fmt.Errorf("adjuster '%s' needs at least %d values but got %d: %w", name, a.size, size, ml.DimensionErr)
	}
	return a.adjust, nil
}

// NewInterpreter returns the output interpreter registered under the given name, basic if empty.
// size is the width of the outputs it will be given.
func NewInterpreter(name string, size int) (ml.Interpreter, error) {
	if name == "" {
		name = "basic"
	}
	i, ok := interpreters[name]
	if !ok {
		return nil, fmt.Errorf("interpreter '%s': %w", name, UnknownErr)
	}
	if size < i.size {
		return nil, fmt.Errorf("interpreter '%s' needs at least %d values but got %d: %w", name, i.size, size, ml.DimensionErr)
	}
	return i.interpret, nil
}

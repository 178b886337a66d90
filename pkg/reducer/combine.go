package reducer

import (
	"fmt"

	"github.com/aretw0/strata/pkg/domain"
)

// Entry is one named slice of a composed state.
type Entry struct {
	name   string
	reduce func(prev any, present bool, action domain.Action) (any, error)
}

// Name returns the slice name.
func (e Entry) Name() string {
	return e.name
}

// Slice declares a slice owned by fn.
// When the parent state has no value for name yet (the store is being
// seeded), fn receives initial.
func Slice[S any](name string, initial S, fn domain.Reducer[S]) Entry {
	e := Entry{name: name}
	if fn == nil {
		return e
	}
	e.reduce = func(prev any, present bool, action domain.Action) (any, error) {
		current := initial
		if present {
			v, err := domain.Decode[S](prev)
			if err != nil {
				return nil, err
			}
			current = v
		}
		return fn(current, action)
	}
	return e
}

// Combine builds the root reducer for the given slices.
//
// Every slice reducer receives its own sub-state and the same action. Slices
// not declared here are dropped from the resulting state. If one slice
// reducer fails, the root reducer returns its error and no state.
func Combine(entries ...Entry) (domain.Reducer[domain.State], error) {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.name == "" {
			return nil, domain.ErrEmptySliceName
		}
		if e.reduce == nil {
			return nil, fmt.Errorf("slice %q: %w", e.name, domain.ErrNilReducer)
		}
		if seen[e.name] {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateSlice, e.name)
		}
		seen[e.name] = true
	}

	slices := make([]Entry, len(entries))
	copy(slices, entries)

	return func(state domain.State, action domain.Action) (domain.State, error) {
		var b domain.StateBuilder
		for _, e := range slices {
			prev, ok := state.Get(e.name)
			next, err := e.reduce(prev, ok, action)
			if err != nil {
				return domain.State{}, fmt.Errorf("slice %q: %w", e.name, err)
			}
			b.Set(e.name, next)
		}
		return b.Build(), nil
	}, nil
}

// MustCombine is like Combine but panics on an invalid declaration.
func MustCombine(entries ...Entry) domain.Reducer[domain.State] {
	r, err := Combine(entries...)
	if err != nil {
		panic(err)
	}
	return r
}

// Package demo holds the counter and user slices used by the CLI demo and
// by tests: two independent reducers, their action creators and the root
// reducer composed from them.
package demo

import (
	"fmt"

	"github.com/aretw0/strata/pkg/codec"
	"github.com/aretw0/strata/pkg/domain"
	"github.com/aretw0/strata/pkg/reducer"
)

// Action types.
const (
	ActionIncrement      = "INCREMENT"
	ActionDecrement      = "DECREMENT"
	ActionToggleActivate = "TOGGLE_ACTIVATE"
)

// Slice names.
const (
	SliceCount = "count"
	SliceUser  = "user"
)

// CountState is the state of the counter slice.
type CountState struct {
	Count int `json:"count" yaml:"count" mapstructure:"count"`
}

// UserState is the state of the user slice.
type UserState struct {
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	IsActivated bool   `json:"isActivated" yaml:"isActivated" mapstructure:"isActivated"`
}

// CountInitialState is the counter slice before any action.
var CountInitialState = CountState{Count: 0}

// UserInitialState is the user slice before any action.
var UserInitialState = UserState{Name: "", IsActivated: false}

// CountReducer adds INCREMENT payloads to the counter and subtracts DECREMENT ones.
func CountReducer(state CountState, action domain.Action) (CountState, error) {
	switch domain.TypeOf(action) {
	case ActionIncrement:
		n, err := amount(action)
		if err != nil {
			return state, err
		}
		return CountState{Count: state.Count + n}, nil
	case ActionDecrement:
		n, err := amount(action)
		if err != nil {
			return state, err
		}
		return CountState{Count: state.Count - n}, nil
	default:
		return state, nil
	}
}

func amount(action domain.Action) (int, error) {
	n, ok := domain.PayloadOf[int](action)
	if !ok {
		return 0, fmt.Errorf("%s expects an int payload, got %T", action.ActionType(), action)
	}
	return n, nil
}

// UserReducer flips the activation flag on TOGGLE_ACTIVATE.
func UserReducer(state UserState, action domain.Action) (UserState, error) {
	switch domain.TypeOf(action) {
	case ActionToggleActivate:
		next := state
		next.IsActivated = !state.IsActivated
		return next, nil
	default:
		return state, nil
	}
}

// Increment creates an INCREMENT action.
func Increment(n int) domain.Typed[int] {
	return domain.NewAction(ActionIncrement, n)
}

// Decrement creates a DECREMENT action.
func Decrement(n int) domain.Typed[int] {
	return domain.NewAction(ActionDecrement, n)
}

// ToggleActivate creates a TOGGLE_ACTIVATE action.
func ToggleActivate() domain.Bare {
	return domain.Bare{Kind: ActionToggleActivate}
}

// Slices returns the slice declarations in state order.
func Slices() []reducer.Entry {
	return []reducer.Entry{
		reducer.Slice(SliceUser, UserInitialState, UserReducer),
		reducer.Slice(SliceCount, CountInitialState, CountReducer),
	}
}

// NewRootReducer composes the user and counter slices.
func NewRootReducer() domain.Reducer[domain.State] {
	return reducer.MustCombine(Slices()...)
}

// RegisterActions declares the demo action types on a codec registry.
func RegisterActions(r *codec.Registry) {
	codec.Register[int](r, ActionIncrement)
	codec.Register[int](r, ActionDecrement)
	codec.RegisterBare(r, ActionToggleActivate)
}

// Script is the sequence run by the demo command.
func Script() []domain.Action {
	return []domain.Action{
		Increment(3),
		Decrement(1),
		ToggleActivate(),
		ToggleActivate(),
	}
}

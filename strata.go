package strata

import (
	"context"
	"log/slog"

	"github.com/aretw0/strata/internal/runtime"
	"github.com/aretw0/strata/pkg/domain"
	"github.com/aretw0/strata/pkg/ports"
	"github.com/aretw0/strata/pkg/reducer"
)

// Action is re-exported for callers that only need the facade.
type Action = domain.Action

// State is the value held by stores built from CombineReducers.
type State = domain.State

// Reducer computes the next state from the current one and an action.
type Reducer[S any] = domain.Reducer[S]

// Listener is notified after every committed dispatch.
type Listener = ports.Listener

// Unsubscribe detaches a listener.
type Unsubscribe = ports.Unsubscribe

// Store is the high-level entry point of the library: the holder of one
// state value plus its dispatch and subscribe operations.
// It wraps the internal runtime store.
type Store[S any] struct {
	runtime *runtime.Store[S]
}

// Option defines a functional option for configuring a Store.
type Option func(*options)

type options struct {
	runtimeOpts []runtime.StoreOption
}

// WithName labels the store in logs and lifecycle events.
func WithName(name string) Option {
	return func(o *options) {
		o.runtimeOpts = append(o.runtimeOpts, runtime.WithName(name))
	}
}

// WithLogger sets a custom structured logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.runtimeOpts = append(o.runtimeOpts, runtime.WithLogger(logger))
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *options) {
		o.runtimeOpts = append(o.runtimeOpts, runtime.WithLifecycleHooks(hooks))
	}
}

// WithIsolatedListeners recovers and logs listener panics instead of letting
// them abort the remaining notifications.
func WithIsolatedListeners() Option {
	return func(o *options) {
		o.runtimeOpts = append(o.runtimeOpts, runtime.WithIsolatedListeners())
	}
}

// CreateStore builds a store around reducer. The reducer is invoked once with
// the zero state and the INIT action to produce the initial state; its error,
// if any, is returned instead of a store.
func CreateStore[S any](r domain.Reducer[S], opts ...Option) (*Store[S], error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	rt, err := runtime.NewStore(r, o.runtimeOpts...)
	if err != nil {
		return nil, err
	}
	return &Store[S]{runtime: rt}, nil
}

// CombineReducers builds a root reducer out of independent slice reducers.
// See package reducer.
func CombineReducers(entries ...reducer.Entry) (domain.Reducer[domain.State], error) {
	return reducer.Combine(entries...)
}

var _ ports.StateStore = (*Store[domain.State])(nil)

// GetState returns the current state snapshot.
func (s *Store[S]) GetState() S {
	return s.runtime.GetState()
}

// Dispatch feeds action through the reducer, commits the result and notifies
// listeners in subscription order. The new state is not returned; call
// GetState.
func (s *Store[S]) Dispatch(ctx context.Context, action domain.Action) error {
	return s.runtime.Dispatch(ctx, action)
}

// Subscribe registers a listener and returns the handle that detaches it.
func (s *Store[S]) Subscribe(fn Listener) Unsubscribe {
	return s.runtime.Subscribe(fn)
}

// Listeners returns the number of attached listeners.
func (s *Store[S]) Listeners() int {
	return s.runtime.Listeners()
}

// Name returns the name given with WithName.
func (s *Store[S]) Name() string {
	return s.runtime.Name()
}

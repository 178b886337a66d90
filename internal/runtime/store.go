package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/strata/internal/logging"
	"github.com/aretw0/strata/pkg/domain"
	"github.com/aretw0/strata/pkg/ports"
)

// Listener is notified after every committed dispatch.
type Listener = ports.Listener

// Unsubscribe detaches a listener.
type Unsubscribe = ports.Unsubscribe

type listenerEntry struct {
	id uint64
	fn Listener
}

// Store owns the current state and the ordered list of listeners.
//
// Dispatches are serialised by a gate so that reduce, commit and notify run
// as one unit across goroutines. GetState and Subscribe only take the state
// lock and may be called from listeners.
type Store[S any] struct {
	reducer domain.Reducer[S]
	config  storeConfig

	gate chan struct{}

	mu        sync.RWMutex
	state     S
	listeners []listenerEntry
	nextID    uint64
}

// NewStore creates a store and seeds it by running reducer once with the
// zero value of S and domain.Init.
func NewStore[S any](reducer domain.Reducer[S], opts ...StoreOption) (*Store[S], error) {
	if reducer == nil {
		return nil, domain.ErrNilReducer
	}

	cfg := storeConfig{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.name != "" {
		cfg.logger = cfg.logger.With("store", cfg.name)
	}

	var zero S
	initial, err := reducer(zero, domain.Init)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	cfg.logger.Debug("Store initialized")

	return &Store[S]{
		reducer: reducer,
		config:  cfg,
		gate:    make(chan struct{}, 1),
		state:   initial,
	}, nil
}

var _ ports.StateStore = (*Store[domain.State])(nil)

// Name returns the name given with WithName.
func (s *Store[S]) Name() string {
	return s.config.name
}

// GetState returns the current state snapshot.
func (s *Store[S]) GetState() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Listeners returns the number of attached listeners.
func (s *Store[S]) Listeners() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners)
}

// Subscribe appends a listener and returns the handle that detaches it.
func (s *Store[S]) Subscribe(fn Listener) Unsubscribe {
	if fn == nil {
		return func() {}
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Store[S]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, l := range s.listeners {
		if l.id == id {
			// Copy instead of shifting in place: a notification may be iterating the old slice.
			next := make([]listenerEntry, 0, len(s.listeners)-1)
			next = append(next, s.listeners[:i]...)
			s.listeners = append(next, s.listeners[i+1:]...)
			return
		}
	}
}

// Dispatch runs the reducer on the current state and action, commits the
// result and notifies every listener in subscription order.
//
// If the reducer fails, the error is returned, the state is left unchanged
// and no listener runs. Dispatch blocks while another goroutine is
// dispatching, unless ctx comes from one of this store's listeners.
//
// A listener that dispatches again must pass along the ctx it received.
// With any other ctx the nested call waits for the gate held by its own
// caller: it blocks until that ctx is done and returns its error, forever
// for context.Background().
func (s *Store[S]) Dispatch(ctx context.Context, action domain.Action) error {
	if !holdsGate(ctx, s) {
		select {
		case s.gate <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}
		defer func() { <-s.gate }()
		ctx = withGate(ctx, s)
	}

	actionType := domain.TypeOf(action)
	start := time.Now()

	if s.config.hooks.OnDispatch != nil {
		s.config.hooks.OnDispatch(ctx, &domain.DispatchEvent{
			EventBase: s.event(domain.EventDispatch, actionType),
		})
	}

	current := s.GetState()
	next, err := s.reducer(current, action)
	if err != nil {
		s.config.logger.Warn("Reducer failed, dispatch discarded", "action", actionType, "err", err)
		if s.config.hooks.OnReducerError != nil {
			s.config.hooks.OnReducerError(ctx, &domain.ErrorEvent{
				EventBase: s.event(domain.EventReducerError, actionType),
				Duration:  time.Since(start),
				Err:       err,
			})
		}
		return fmt.Errorf("dispatch %q: %w", actionType, err)
	}

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	s.config.logger.Debug("Action dispatched", "action", actionType, "duration", time.Since(start))
	if s.config.hooks.OnCommit != nil {
		s.config.hooks.OnCommit(ctx, &domain.CommitEvent{
			EventBase: s.event(domain.EventCommit, actionType),
			Duration:  time.Since(start),
			Diff:      diffOf(current, next),
		})
	}

	s.mu.RLock()
	listeners := s.listeners
	s.mu.RUnlock()

	for _, l := range listeners {
		if s.config.isolate {
			s.notifyIsolated(ctx, actionType, l)
		} else {
			l.fn(ctx)
		}
	}

	if s.config.hooks.OnNotify != nil {
		s.config.hooks.OnNotify(ctx, &domain.NotifyEvent{
			EventBase: s.event(domain.EventNotify, actionType),
			Listeners: len(listeners),
		})
	}
	return nil
}

func (s *Store[S]) notifyIsolated(ctx context.Context, actionType string, l listenerEntry) {
	defer func() {
		if r := recover(); r != nil {
			s.config.logger.Error("Listener panicked", "action", actionType, "listener", l.id, "panic", r)
			if s.config.hooks.OnListenerPanic != nil {
				s.config.hooks.OnListenerPanic(ctx, &domain.PanicEvent{
					EventBase: s.event(domain.EventListenerPanic, actionType),
					Recovered: r,
				})
			}
		}
	}()
	l.fn(ctx)
}

func (s *Store[S]) event(t domain.EventType, actionType string) domain.EventBase {
	return domain.EventBase{
		Timestamp:  time.Now(),
		Type:       t,
		Store:      s.config.name,
		ActionType: actionType,
	}
}

// diffOf only knows how to compare composed states.
func diffOf[S any](old, next S) *domain.StateDiff {
	o, ok := any(old).(domain.State)
	if !ok {
		return nil
	}
	n, ok := any(next).(domain.State)
	if !ok {
		return nil
	}
	return domain.Diff(o, n)
}

// gateChain records, in a context, every store whose dispatch gate is held
// by the current call chain.
type gateChain struct {
	store  any
	parent *gateChain
}

type gateKey struct{}

func withGate(ctx context.Context, store any) context.Context {
	parent, _ := ctx.Value(gateKey{}).(*gateChain)
	return context.WithValue(ctx, gateKey{}, &gateChain{store: store, parent: parent})
}

func holdsGate(ctx context.Context, store any) bool {
	for c, _ := ctx.Value(gateKey{}).(*gateChain); c != nil; c = c.parent {
		if c.store == store {
			return true
		}
	}
	return false
}

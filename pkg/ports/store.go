package ports

import (
	"context"

	"github.com/aretw0/strata/pkg/domain"
)

// Listener is notified after every committed dispatch.
// The context is the dispatch context; a listener that dispatches again must
// pass it along so the store recognises the call as re-entrant.
type Listener func(ctx context.Context)

// Unsubscribe detaches a listener. Calling it more than once is a no-op.
type Unsubscribe func()

// Store is the contract every state container satisfies.
type Store[S any] interface {
	// GetState returns the current snapshot. It never fails.
	GetState() S

	// Dispatch reduces the action into a new state, commits it and notifies
	// listeners. On a reducer error the state is left unchanged.
	Dispatch(ctx context.Context, action domain.Action) error

	// Subscribe appends a listener.
	Subscribe(fn Listener) Unsubscribe
}

// StateStore is a Store holding a composed domain.State.
type StateStore = Store[domain.State]

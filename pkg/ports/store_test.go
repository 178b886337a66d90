package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/strata/pkg/domain"
	"github.com/aretw0/strata/pkg/ports"
)

// MockStore is a minimal, single-goroutine implementation of StateStore.
type MockStore struct {
	state     domain.State
	listeners []ports.Listener
}

func NewMockStore() *MockStore {
	s, _ := ports.ContractReducer(domain.NewState(), domain.Init)
	return &MockStore{state: s}
}

func (m *MockStore) GetState() domain.State { return m.state }

func (m *MockStore) Dispatch(ctx context.Context, action domain.Action) error {
	next, err := ports.ContractReducer(m.state, action)
	if err != nil {
		return err
	}
	m.state = next
	for _, l := range append([]ports.Listener(nil), m.listeners...) {
		if l != nil {
			l(ctx)
		}
	}
	return nil
}

func (m *MockStore) Subscribe(fn ports.Listener) ports.Unsubscribe {
	i := len(m.listeners)
	m.listeners = append(m.listeners, fn)
	return func() { m.listeners[i] = nil }
}

func TestStateStore_Contract(t *testing.T) {
	// This test verifies the contract suite itself against a trivial store.
	ports.RunStateStoreContract(t, func(t *testing.T) ports.StateStore {
		return NewMockStore()
	})
}

package ports

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/strata/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ContractSlice is the slice the contract reducer writes to.
const ContractSlice = "hits"

// ContractReducer is the root reducer RunStateStoreContract expects stores to
// be built from: it counts "HIT" actions in the "hits" slice and fails on "FAIL".
func ContractReducer(state domain.State, action domain.Action) (domain.State, error) {
	hits := 0
	if v, ok := state.Get(ContractSlice); ok {
		hits = v.(int)
	}
	switch domain.TypeOf(action) {
	case "HIT":
		hits++
	case "FAIL":
		return domain.State{}, errContract
	}
	return domain.NewState().With(ContractSlice, hits), nil
}

var errContract = errors.New("contract failure")

// RunStateStoreContract runs a suite of tests to verify that a StateStore
// implementation adheres to the defined interface contract. newStore must
// return a fresh store built from ContractReducer on every call.
func RunStateStoreContract(t *testing.T, newStore func(t *testing.T) StateStore) {
	ctx := context.Background()

	hits := func(s StateStore) int {
		v, ok := s.GetState().Get(ContractSlice)
		require.True(t, ok, "store must hold the %q slice", ContractSlice)
		return v.(int)
	}

	t.Run("Initial State", func(t *testing.T) {
		store := newStore(t)
		assert.Equal(t, 0, hits(store))
	})

	t.Run("Dispatch Replaces State", func(t *testing.T) {
		store := newStore(t)
		before := store.GetState()

		require.NoError(t, store.Dispatch(ctx, domain.Bare{Kind: "HIT"}))
		assert.Equal(t, 1, hits(store))

		v, _ := before.Get(ContractSlice)
		assert.Equal(t, 0, v, "previous snapshots are never mutated")
	})

	t.Run("Unknown Action Keeps State", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Dispatch(ctx, domain.Bare{Kind: "UNKNOWN"}))
		assert.Equal(t, 0, hits(store))
	})

	t.Run("Reducer Error", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Dispatch(ctx, domain.Bare{Kind: "HIT"}))

		notified := 0
		store.Subscribe(func(context.Context) { notified++ })

		err := store.Dispatch(ctx, domain.Bare{Kind: "FAIL"})
		assert.ErrorIs(t, err, errContract)
		assert.Equal(t, 1, hits(store), "state must be left unchanged")
		assert.Zero(t, notified, "listeners must not run")
	})

	t.Run("Notification Order", func(t *testing.T) {
		store := newStore(t)
		var calls []string
		store.Subscribe(func(context.Context) { calls = append(calls, "first") })
		store.Subscribe(func(context.Context) { calls = append(calls, "second") })

		require.NoError(t, store.Dispatch(ctx, domain.Bare{Kind: "HIT"}))
		assert.Equal(t, []string{"first", "second"}, calls)
	})

	t.Run("Unsubscribe", func(t *testing.T) {
		store := newStore(t)
		calls := 0
		unsubscribe := store.Subscribe(func(context.Context) { calls++ })

		require.NoError(t, store.Dispatch(ctx, domain.Bare{Kind: "HIT"}))
		unsubscribe()
		unsubscribe()
		require.NoError(t, store.Dispatch(ctx, domain.Bare{Kind: "HIT"}))

		assert.Equal(t, 1, calls)
	})
}

package strata_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/strata"
	"github.com/aretw0/strata/internal/demo"
	"github.com/aretw0/strata/pkg/domain"
	"github.com/aretw0/strata/pkg/ports"
	"github.com/aretw0/strata/pkg/reducer"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDemoStore(t *testing.T, opts ...strata.Option) *strata.Store[strata.State] {
	t.Helper()
	root, err := strata.CombineReducers(demo.Slices()...)
	require.NoError(t, err)
	store, err := strata.CreateStore(root, opts...)
	require.NoError(t, err)
	return store
}

func slices(t *testing.T, st strata.State) (demo.CountState, demo.UserState) {
	t.Helper()
	count, err := domain.SliceOf[demo.CountState](st, demo.SliceCount)
	require.NoError(t, err)
	user, err := domain.SliceOf[demo.UserState](st, demo.SliceUser)
	require.NoError(t, err)
	return count, user
}

func TestStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, func(t *testing.T) ports.StateStore {
		s, err := strata.CreateStore(ports.ContractReducer)
		require.NoError(t, err)
		return s
	})
}

func TestScenario_InitialState(t *testing.T) {
	store := newDemoStore(t)

	st := store.GetState()
	assert.Equal(t, []string{"user", "count"}, st.Keys())

	count, user := slices(t, st)
	assert.Equal(t, demo.CountState{Count: 0}, count)
	assert.Equal(t, demo.UserState{Name: "", IsActivated: false}, user)
}

func TestScenario_IncrementThenDecrement(t *testing.T) {
	ctx := context.Background()
	store := newDemoStore(t)

	require.NoError(t, store.Dispatch(ctx, demo.Increment(3)))
	count, user := slices(t, store.GetState())
	assert.Equal(t, 3, count.Count)
	assert.Equal(t, demo.UserInitialState, user)

	require.NoError(t, store.Dispatch(ctx, demo.Decrement(1)))
	count, _ = slices(t, store.GetState())
	assert.Equal(t, 2, count.Count)
}

func TestScenario_ToggleActivate(t *testing.T) {
	ctx := context.Background()
	store := newDemoStore(t)

	require.NoError(t, store.Dispatch(ctx, demo.ToggleActivate()))
	_, user := slices(t, store.GetState())
	assert.True(t, user.IsActivated)

	require.NoError(t, store.Dispatch(ctx, demo.ToggleActivate()))
	_, user = slices(t, store.GetState())
	assert.False(t, user.IsActivated)
}

func TestScenario_SubscribersCalledInOrderOnce(t *testing.T) {
	store := newDemoStore(t)

	var calls []string
	store.Subscribe(func(context.Context) { calls = append(calls, "s1") })
	store.Subscribe(func(context.Context) { calls = append(calls, "s2") })
	assert.Equal(t, 2, store.Listeners())

	require.NoError(t, store.Dispatch(context.Background(), demo.Increment(1)))
	assert.Equal(t, []string{"s1", "s2"}, calls)
}

func TestProperty_UnknownActionsAreIdentity(t *testing.T) {
	ctx := context.Background()
	store := newDemoStore(t)
	require.NoError(t, store.Dispatch(ctx, demo.Increment(5)))
	before := store.GetState()

	unknown := []domain.Action{
		domain.Bare{Kind: "NOT_A_THING"},
		domain.NewAction("ALSO_UNKNOWN", map[string]any{"x": 1}),
		domain.Bare{}, // no type at all
	}
	for _, a := range unknown {
		require.NoError(t, store.Dispatch(ctx, a))
		if diff := cmp.Diff(before.Map(), store.GetState().Map()); diff != "" {
			t.Errorf("action %q changed state (-before +after):\n%s", domain.TypeOf(a), diff)
		}
	}

	// Slice reducers alone
	c := demo.CountState{Count: 9}
	got, err := demo.CountReducer(c, domain.Bare{Kind: "NOPE"})
	require.NoError(t, err)
	assert.Equal(t, c, got)

	u := demo.UserState{Name: "ana", IsActivated: true}
	gotUser, err := demo.UserReducer(u, demo.Increment(1))
	require.NoError(t, err)
	assert.Equal(t, u, gotUser)
}

func TestProperty_CompositionIndependence(t *testing.T) {
	ctx := context.Background()
	store := newDemoStore(t)

	before := store.GetState()
	require.NoError(t, store.Dispatch(ctx, demo.Increment(2)))
	after := store.GetState()
	assert.Equal(t, []string{"count"}, domain.Diff(before, after).Slices(), "only count may change")

	before = after
	require.NoError(t, store.Dispatch(ctx, demo.ToggleActivate()))
	after = store.GetState()
	assert.Equal(t, []string{"user"}, domain.Diff(before, after).Slices(), "only user may change")
}

func TestDispatch_BadPayloadSurfacesAndKeepsState(t *testing.T) {
	ctx := context.Background()
	store := newDemoStore(t)
	require.NoError(t, store.Dispatch(ctx, demo.Increment(1)))

	calls := 0
	store.Subscribe(func(context.Context) { calls++ })

	err := store.Dispatch(ctx, domain.NewAction(demo.ActionIncrement, "three"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `slice "count"`)

	count, _ := slices(t, store.GetState())
	assert.Equal(t, 1, count.Count)
	assert.Zero(t, calls)
}

func TestStores_AreIndependent(t *testing.T) {
	ctx := context.Background()
	a := newDemoStore(t, strata.WithName("a"))
	b := newDemoStore(t, strata.WithName("b"))

	require.NoError(t, a.Dispatch(ctx, demo.Increment(10)))

	countA, _ := slices(t, a.GetState())
	countB, _ := slices(t, b.GetState())
	assert.Equal(t, 10, countA.Count)
	assert.Equal(t, 0, countB.Count)
	assert.Equal(t, "a", a.Name())
}

func TestCreateStore_InitFailure(t *testing.T) {
	errInit := errors.New("cannot seed")
	root := reducer.MustCombine(
		reducer.Slice("broken", 0, func(int, domain.Action) (int, error) { return 0, errInit }),
	)

	store, err := strata.CreateStore(root)
	assert.Nil(t, store)
	assert.ErrorIs(t, err, errInit)
}

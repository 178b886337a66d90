package observability_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/strata"
	"github.com/aretw0/strata/internal/demo"
	"github.com/aretw0/strata/pkg/domain"
	"github.com/aretw0/strata/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountDispatches(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg, observability.WithStoreLabel())
	require.NoError(t, err)

	store, err := strata.CreateStore(demo.NewRootReducer(),
		strata.WithName("demo"),
		strata.WithLifecycleHooks(m.Hooks()),
	)
	require.NoError(t, err)
	store.Subscribe(func(context.Context) {})

	ctx := context.Background()
	require.NoError(t, store.Dispatch(ctx, demo.Increment(1)))
	require.NoError(t, store.Dispatch(ctx, demo.Increment(1)))
	require.NoError(t, store.Dispatch(ctx, demo.ToggleActivate()))
	require.Error(t, store.Dispatch(ctx, domain.NewAction(demo.ActionIncrement, "x")))

	expected := `
# HELP strata_dispatch_total Total number of dispatched actions, by outcome
# TYPE strata_dispatch_total counter
strata_dispatch_total{action="INCREMENT",result="error",store="demo"} 1
strata_dispatch_total{action="INCREMENT",result="ok",store="demo"} 2
strata_dispatch_total{action="TOGGLE_ACTIVATE",result="ok",store="demo"} 1
# HELP strata_slice_changes_total Number of commits that changed a slice
# TYPE strata_slice_changes_total counter
strata_slice_changes_total{slice="count",store="demo"} 2
strata_slice_changes_total{slice="user",store="demo"} 1
# HELP strata_listeners Listeners notified by the last dispatch
# TYPE strata_listeners gauge
strata_listeners{store="demo"} 1
`
	err = testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"strata_dispatch_total", "strata_slice_changes_total", "strata_listeners")
	assert.NoError(t, err)
}

func TestMetrics_UnknownActionsShareOneSeries(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg,
		observability.WithKnownActions([]string{demo.ActionIncrement}),
	)
	require.NoError(t, err)

	store, err := strata.CreateStore(demo.NewRootReducer(),
		strata.WithName("demo"),
		strata.WithLifecycleHooks(m.Hooks()),
	)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Dispatch(ctx, demo.Increment(1)))
	for i := 0; i < 20; i++ {
		require.NoError(t, store.Dispatch(ctx, domain.Bare{Kind: fmt.Sprintf("RANDOM_%d", i)}))
	}

	expected := `
# HELP strata_dispatch_total Total number of dispatched actions, by outcome
# TYPE strata_dispatch_total counter
strata_dispatch_total{action="INCREMENT",result="ok"} 1
strata_dispatch_total{action="unknown",result="ok"} 20
`
	err = testutil.GatherAndCompare(reg, strings.NewReader(expected), "strata_dispatch_total")
	assert.NoError(t, err)
}

func TestMetrics_ForgetStore(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg, observability.WithStoreLabel())
	require.NoError(t, err)

	ctx := context.Background()
	for _, name := range []string{"a", "b"} {
		store, err := strata.CreateStore(demo.NewRootReducer(),
			strata.WithName(name),
			strata.WithLifecycleHooks(m.Hooks()),
		)
		require.NoError(t, err)
		require.NoError(t, store.Dispatch(ctx, demo.Increment(1)))
	}
	count, err := testutil.GatherAndCount(reg, "strata_dispatch_total")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	assert.Positive(t, m.Forget("a"))
	count, err = testutil.GatherAndCount(reg, "strata_dispatch_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Zero(t, m.Forget("a"), "forgetting twice deletes nothing")
}

func TestMetrics_ForgetWithoutStoreLabel(t *testing.T) {
	m, err := observability.NewMetrics(nil)
	require.NoError(t, err)
	assert.Zero(t, m.Forget("a"))
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)

	_, err = observability.NewMetrics(nil)
	assert.NoError(t, err)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store, err := strata.CreateStore(demo.NewRootReducer(),
		strata.WithName("demo"),
		strata.WithLifecycleHooks(observability.LoggingHooks(logger)),
	)
	require.NoError(t, err)

	require.NoError(t, store.Dispatch(context.Background(), demo.Increment(3)))

	out := buf.String()
	assert.Contains(t, out, "msg=dispatch")
	assert.Contains(t, out, "msg=commit")
	assert.Contains(t, out, "changed=[count]")
	assert.Contains(t, out, "msg=notify")
}

func TestMerge(t *testing.T) {
	var order []string
	a := domain.LifecycleHooks{
		OnCommit: func(context.Context, *domain.CommitEvent) { order = append(order, "a") },
	}
	b := domain.LifecycleHooks{
		OnCommit: func(context.Context, *domain.CommitEvent) { order = append(order, "b") },
		OnNotify: func(context.Context, *domain.NotifyEvent) { order = append(order, "b-notify") },
	}

	merged := observability.Merge(a, domain.LifecycleHooks{}, b)
	assert.Nil(t, merged.OnDispatch)

	merged.OnCommit(context.Background(), &domain.CommitEvent{})
	merged.OnNotify(context.Background(), &domain.NotifyEvent{})
	assert.Equal(t, []string{"a", "b", "b-notify"}, order)
}

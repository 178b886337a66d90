package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/strata/internal/demo"
	"github.com/aretw0/strata/internal/runtime"
	"github.com/aretw0/strata/internal/testutils"
	"github.com/aretw0/strata/pkg/adapters/redis"
	"github.com/aretw0/strata/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan redis.Message) redis.Message {
	t.Helper()
	select {
	case msg, ok := <-ch:
		require.True(t, ok, "listen channel closed")
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return redis.Message{}
}

func TestNotifier_PublishesDiffs(t *testing.T) {
	_, client := testutils.SetupRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs, err := redis.Listen(ctx, client, "test:changes")
	require.NoError(t, err)

	store, err := runtime.NewStore(demo.NewRootReducer())
	require.NoError(t, err)

	n := redis.NewFromClient(client, redis.WithChannel("test:changes"))
	unsubscribe := n.Attach("s1", store)
	defer unsubscribe()

	require.NoError(t, store.Dispatch(ctx, demo.Increment(3)))

	msg := receive(t, msgs)
	assert.Equal(t, "s1", msg.Store)
	require.NotNil(t, msg.Diff)
	assert.Equal(t, []string{demo.SliceCount}, msg.Diff.Slices())

	count, err := domain.Decode[demo.CountState](msg.Diff.Changed[demo.SliceCount])
	require.NoError(t, err)
	assert.Equal(t, 3, count.Count)
}

func TestNotifier_SkipsUnchangedState(t *testing.T) {
	_, client := testutils.SetupRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs, err := redis.Listen(ctx, client, "")
	require.NoError(t, err)

	store, err := runtime.NewStore(demo.NewRootReducer())
	require.NoError(t, err)
	n := redis.NewFromClient(client)
	assert.Equal(t, redis.DefaultChannel, n.Channel())
	n.Attach("s1", store)

	// Unknown action: no change, nothing published.
	require.NoError(t, store.Dispatch(ctx, domain.Bare{Kind: "NOOP"}))
	require.NoError(t, store.Dispatch(ctx, demo.ToggleActivate()))

	msg := receive(t, msgs)
	assert.Equal(t, []string{demo.SliceUser}, msg.Diff.Slices())
}

func TestNotifier_PublishFailureDoesNotFailDispatch(t *testing.T) {
	mr, client := testutils.SetupRedis(t)
	store, err := runtime.NewStore(demo.NewRootReducer())
	require.NoError(t, err)

	redis.NewFromClient(client, redis.WithTimeout(100*time.Millisecond)).Attach("s1", store)
	mr.Close()

	require.NoError(t, store.Dispatch(context.Background(), demo.Increment(1)))
	assert.Equal(t, 1, testutils.CountOf(t, store.GetState()))
}

func TestNotifier_Close(t *testing.T) {
	mr := miniredis.RunT(t)
	n := redis.New(mr.Addr(), "", 0)

	require.NoError(t, n.Publish(context.Background(), redis.Message{Store: "s1"}))
	require.NoError(t, n.Close())
	assert.Error(t, n.Publish(context.Background(), redis.Message{Store: "s1"}), "closed client must not publish")
}

func TestListen_StopsOnCancel(t *testing.T) {
	_, client := testutils.SetupRedis(t)
	ctx, cancel := context.WithCancel(context.Background())

	msgs, err := redis.Listen(ctx, client, "test:changes")
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-msgs:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("listen channel not closed after cancel")
	}
}

package testutils

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/strata/internal/demo"
	"github.com/aretw0/strata/pkg/domain"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// SetupRedis starts an in-memory Redis server and returns it with a
// connected client. Both are closed when the test ends.
// It fails the test immediately on error.
func SetupRedis(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

// CountOf reads the demo counter slice.
func CountOf(t *testing.T, state domain.State) int {
	t.Helper()
	c, err := domain.SliceOf[demo.CountState](state, demo.SliceCount)
	require.NoError(t, err)
	return c.Count
}

// UserOf reads the demo user slice.
func UserOf(t *testing.T, state domain.State) demo.UserState {
	t.Helper()
	u, err := domain.SliceOf[demo.UserState](state, demo.SliceUser)
	require.NoError(t, err)
	return u
}

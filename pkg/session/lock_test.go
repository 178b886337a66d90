package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/strata/internal/demo"
	"github.com/aretw0/strata/internal/runtime"
	"github.com/aretw0/strata/pkg/ports"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(func(ctx context.Context, id string) (ports.StateStore, error) {
		return runtime.NewStore(demo.NewRootReducer())
	})
	ctx := context.Background()
	count := 10000

	// 1. Create and Delete many sessions
	for i := 0; i < count; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_, _ = mgr.LoadOrStart(ctx, sid)
		_ = mgr.Delete(ctx, sid)
	}

	// 2. Count locks remaining in map
	lockCount := len(mgr.locks)

	if lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", lockCount)
	}
	if len(mgr.stores) != 0 {
		t.Errorf("%d stores remaining after Delete", len(mgr.stores))
	}
}

package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/strata/pkg/domain"
)

// Merge combines hook sets; for each event, hooks run in argument order.
func Merge(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnDispatch = chain(out.OnDispatch, h.OnDispatch)
		out.OnCommit = chain(out.OnCommit, h.OnCommit)
		out.OnReducerError = chain(out.OnReducerError, h.OnReducerError)
		out.OnNotify = chain(out.OnNotify, h.OnNotify)
		out.OnListenerPanic = chain(out.OnListenerPanic, h.OnListenerPanic)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}

// LoggingHooks logs every lifecycle event on logger.
// Dispatches and notifications are logged at Debug, commits at Info.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatch: func(ctx context.Context, e *domain.DispatchEvent) {
			logger.DebugContext(ctx, "dispatch", "store", e.Store, "action", e.ActionType)
		},
		OnCommit: func(ctx context.Context, e *domain.CommitEvent) {
			logger.InfoContext(ctx, "commit",
				"store", e.Store,
				"action", e.ActionType,
				"duration", e.Duration,
				"changed", e.Diff.Slices(),
			)
		},
		OnReducerError: func(ctx context.Context, e *domain.ErrorEvent) {
			logger.WarnContext(ctx, "reducer_error", "store", e.Store, "action", e.ActionType, "err", e.Err)
		},
		OnNotify: func(ctx context.Context, e *domain.NotifyEvent) {
			logger.DebugContext(ctx, "notify", "store", e.Store, "action", e.ActionType, "listeners", e.Listeners)
		},
		OnListenerPanic: func(ctx context.Context, e *domain.PanicEvent) {
			logger.ErrorContext(ctx, "listener_panic", "store", e.Store, "action", e.ActionType, "panic", e.Recovered)
		},
	}
}

package runtime

import (
	"log/slog"

	"github.com/aretw0/strata/pkg/domain"
)

type storeConfig struct {
	name    string
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	isolate bool
}

// StoreOption configures a Store.
type StoreOption func(*storeConfig)

// WithName labels the store in logs and lifecycle events.
func WithName(name string) StoreOption {
	return func(c *storeConfig) {
		c.name = name
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(c *storeConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) StoreOption {
	return func(c *storeConfig) {
		c.hooks = hooks
	}
}

// WithIsolatedListeners recovers listener panics so that one failing
// listener does not prevent the others from being notified.
func WithIsolatedListeners() StoreOption {
	return func(c *storeConfig) {
		c.isolate = true
	}
}

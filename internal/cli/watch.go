package cli

import (
	"context"

	"github.com/aretw0/strata/internal/presentation/tui"
	redisAdapter "github.com/aretw0/strata/pkg/adapters/redis"
	backend "github.com/redis/go-redis/v9"
)

// defaultRedisAddr is used by watch when the configuration names no server.
const defaultRedisAddr = "localhost:6379"

// RunWatch prints every state change published by `strata serve` until ctx
// is cancelled.
func RunWatch(ctx context.Context, opts Options) error {
	cfg := opts.Config.Redis
	if cfg.Addr == "" {
		cfg.Addr = defaultRedisAddr
	}

	logger, err := NewLogger(opts.Config)
	if err != nil {
		return err
	}
	printer, err := tui.NewPrinter(opts.out(), opts.Format)
	if err != nil {
		return err
	}
	if opts.Banner {
		printBanner(opts)
	}

	client := backend.NewClient(&backend.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	defer client.Close()

	msgs, err := redisAdapter.Listen(ctx, client, cfg.Channel)
	if err != nil {
		return err
	}

	logger.Info("Watching state changes", "redis", cfg.Addr, "channel", cfg.Channel)
	printSystemMessage(opts.out(), "Watching '%s'. Press Ctrl+C to stop.", cfg.Channel)

	for msg := range msgs {
		if err := printer.PrintDiff(msg.Store, msg.Diff); err != nil {
			logger.Warn("Failed to print change", "store", msg.Store, "err", err)
		}
	}
	logger.Info("Watch stopped", "cause", stopCause(ctx))
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/strata"
	"github.com/aretw0/strata/internal/demo"
	httpAdapter "github.com/aretw0/strata/pkg/adapters/http"
	redisAdapter "github.com/aretw0/strata/pkg/adapters/redis"
	"github.com/aretw0/strata/pkg/codec"
	"github.com/aretw0/strata/pkg/observability"
	"github.com/aretw0/strata/pkg/ports"
	"github.com/aretw0/strata/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// shutdownTimeout bounds graceful shutdown of the HTTP server.
const shutdownTimeout = 5 * time.Second

// NewServeHandler assembles the HTTP API over demo stores: one store per
// session, metrics when enabled, and Redis change notifications when an
// address is configured. The returned close function releases the Redis
// client and must be called once the server has stopped.
func NewServeHandler(opts Options, logger *slog.Logger) (http.Handler, func() error, error) {
	cfg := opts.Config
	router := chi.NewRouter()
	closeFn := func() error { return nil }

	registry := codec.NewRegistry()
	demo.RegisterActions(registry)

	var metrics *observability.Metrics
	sessionOpts := []session.Option{session.WithLogger(logger)}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		// Action types come from request bodies; only registered ones get their own series.
		metricOpts := []observability.MetricsOption{observability.WithKnownActions(registry.Types())}
		if cfg.Metrics.StoreLabel {
			metricOpts = append(metricOpts, observability.WithStoreLabel())
		}

		var err error
		metrics, err = observability.NewMetrics(reg, metricOpts...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		sessionOpts = append(sessionOpts, session.WithOnDelete(
			func(ctx context.Context, id string) {
				metrics.Forget(id)
			},
		))

		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		router.Handle(path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	if cfg.Redis.Addr != "" {
		notifier := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisAdapter.WithChannel(cfg.Redis.Channel),
			redisAdapter.WithLogger(logger),
		)
		closeFn = notifier.Close
		sessionOpts = append(sessionOpts, session.WithOnCreate(
			func(ctx context.Context, id string, store ports.StateStore) {
				notifier.Attach(id, store)
			},
		))
		logger.Info("Publishing state changes", "redis", cfg.Redis.Addr, "channel", notifier.Channel())
	}

	sessions := session.NewManager(func(ctx context.Context, id string) (ports.StateStore, error) {
		// A failing stream or notifier must not abort other listeners.
		store, err := newDemoStore(id, logger, metrics, strata.WithIsolatedListeners())
		if err != nil {
			return nil, err
		}
		return store, nil
	}, sessionOpts...)

	router.Mount("/", httpAdapter.NewHandler(sessions, registry, httpAdapter.WithLogger(logger)))
	return router, closeFn, nil
}

// RunServe starts the HTTP server and blocks until ctx is cancelled, then
// shuts it down gracefully.
func RunServe(ctx context.Context, opts Options) error {
	logger, err := NewLogger(opts.Config)
	if err != nil {
		return err
	}
	if opts.Banner {
		printBanner(opts)
	}

	handler, closeFn, err := NewServeHandler(opts, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeFn(); err != nil {
			logger.Warn("Failed to close notifier", "err", err)
		}
	}()

	srv := &http.Server{
		Addr:              opts.Config.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting Strata Server", "addr", srv.Addr, "metrics", opts.Config.Metrics.Enabled)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("Start shutdown...", "cause", stopCause(ctx))

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		logger.Info("Strata Server stopped gracefully")
		return nil
	}
}


package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/aretw0/strata"
	"github.com/aretw0/strata/internal/config"
	"github.com/aretw0/strata/internal/demo"
	"github.com/aretw0/strata/internal/logging"
	"github.com/aretw0/strata/internal/presentation/tui"
	"github.com/aretw0/strata/pkg/observability"
)

// Options carries what every command needs.
type Options struct {
	Config config.Config
	Out    io.Writer
	Format string // yaml | json | markdown
	Banner bool
}

func (o Options) out() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// stopCause names what stopped a long-running command: the captured signal
// when ctx is a SignalContext, otherwise the context error.
func stopCause(ctx context.Context) string {
	if sc, ok := ctx.(*SignalContext); ok {
		if sig := sc.Signal(); sig != nil {
			return sig.String()
		}
	}
	if err := ctx.Err(); err != nil {
		return err.Error()
	}
	return ""
}

// NewLogger builds the application logger from the configuration.
// Logs always go to Stderr so Stdout only carries printed state.
func NewLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return logging.NewJSON(os.Stderr, level), nil
	}
	return logging.New(level), nil
}

// newDemoStore creates a store over the demo reducers, wired to the logger
// and, when given, to metrics.
func newDemoStore(name string, logger *slog.Logger, metrics *observability.Metrics, extra ...strata.Option) (*strata.Store[strata.State], error) {
	hooks := observability.LoggingHooks(logger)
	if metrics != nil {
		hooks = observability.Merge(hooks, metrics.Hooks())
	}
	opts := []strata.Option{
		strata.WithName(name),
		strata.WithLogger(logger),
		strata.WithLifecycleHooks(hooks),
	}
	return strata.CreateStore(demo.NewRootReducer(), append(opts, extra...)...)
}

func printBanner(opts Options) {
	tui.PrintBanner(opts.out(), strata.Version)
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

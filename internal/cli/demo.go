package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/strata/internal/demo"
	"github.com/aretw0/strata/internal/presentation/tui"
	"github.com/aretw0/strata/pkg/domain"
)

// RunDemo builds the demo store, prints its initial state and then the state
// after each action of the demo script, from a subscribed listener.
func RunDemo(ctx context.Context, opts Options) error {
	return runActions(ctx, "demo", demo.Script(), opts)
}

func runActions(ctx context.Context, name string, actions []domain.Action, opts Options) error {
	out := opts.out()
	logger, err := NewLogger(opts.Config)
	if err != nil {
		return err
	}
	printer, err := tui.NewPrinter(out, opts.Format)
	if err != nil {
		return err
	}
	if opts.Banner {
		printBanner(opts)
	}

	store, err := newDemoStore(name, logger, nil)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	if err := printer.PrintState("initial state", store.GetState()); err != nil {
		return err
	}

	// The listener runs synchronously inside Dispatch, so label is always
	// the action being dispatched.
	var label string
	var printErr error
	unsubscribe := store.Subscribe(func(ctx context.Context) {
		if err := printer.PrintState(label, store.GetState()); err != nil && printErr == nil {
			printErr = err
		}
	})
	defer unsubscribe()

	for i, action := range actions {
		label = fmt.Sprintf("#%d %s", i+1, domain.TypeOf(action))
		if err := store.Dispatch(ctx, action); err != nil {
			return fmt.Errorf("action #%d: %w", i+1, err)
		}
		if printErr != nil {
			return printErr
		}
	}

	printSystemMessage(out, "%d actions dispatched to '%s'.", len(actions), name)
	return nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/strata/internal/demo"
	"github.com/aretw0/strata/pkg/codec"
)

// RunScript dispatches the actions listed in a YAML or JSON script file to
// a fresh demo store. With strict set, unregistered action types are
// rejected before anything is dispatched.
func RunScript(ctx context.Context, path string, strict bool, opts Options) error {
	script, err := codec.LoadScript(path)
	if err != nil {
		return err
	}

	var registryOpts []codec.Option
	if strict {
		registryOpts = append(registryOpts, codec.WithStrict())
	}
	registry := codec.NewRegistry(registryOpts...)
	demo.RegisterActions(registry)

	actions, err := registry.DecodeAll(script.Actions)
	if err != nil {
		return fmt.Errorf("invalid script %s: %w", path, err)
	}

	name := script.Name
	if name == "" {
		name = "script"
	}
	return runActions(ctx, name, actions, opts)
}

/*
Package strata is a minimal unidirectional state container.

A Store holds a single state value. The only way to change it is to dispatch
an action: the store runs its reducer on the current state and the action,
replaces the state with the result and then calls every subscribed listener,
in subscription order. Reducers are pure functions, so the same state and
action always produce the same next state.

# Concept

Large states are split into named slices, each owned by its own reducer.
CombineReducers builds the root reducer: every slice reducer sees only its own
slice, and every dispatch produces a brand-new State holding the slices in
declaration order.

# Key Features

  - Typed actions: Typed[P] carries a payload of a known type, Bare carries none.
  - Explicit stores: nothing is global, so several stores (or tests) never interfere.
  - Safe concurrency: dispatches from different goroutines are serialised.
  - Re-entrant listeners: a listener may dispatch using the context it receives.
  - Observability: lifecycle hooks feed slog and Prometheus (package observability).

# Usage

	type todos struct{ Items []string }

	reducer := func(s todos, a strata.Action) (todos, error) {
		if a.ActionType() == "ADD" {
			item, _ := domain.PayloadOf[string](a)
			return todos{Items: append(slices.Clone(s.Items), item)}, nil
		}
		return s, nil
	}

	store, err := strata.CreateStore(reducer)
	if err != nil {
		log.Fatal(err)
	}
	unsubscribe := store.Subscribe(func(ctx context.Context) {
		fmt.Println(store.GetState().Items)
	})
	defer unsubscribe()

	_ = store.Dispatch(ctx, domain.NewAction("ADD", "write docs"))

# Architecture

  - pkg/domain: actions, reducers, the composed State and its diff.
  - pkg/reducer: slice declarations and reducer composition.
  - internal/runtime: the store itself.
  - pkg/codec: actions on the wire (JSON/YAML envelopes and scripts).
  - pkg/session: named, independent stores.
  - pkg/adapters: HTTP API and Redis change notifications.
*/
package strata

/*
Package reducer composes independent slice reducers into one root reducer.

Each slice is declared with its name, its initial value and a reducer that
only ever sees its own sub-state:

	root, err := reducer.Combine(
		reducer.Slice("count", CountState{}, CountReducer),
		reducer.Slice("user", UserState{}, UserReducer),
	)

The root reducer produces a brand-new domain.State on every call, with the
slices in declaration order.
*/
package reducer

package domain

// Reducer computes the next state from the current state and an action.
// Reducers must be pure and total: an action they do not recognise returns
// the input state unchanged. A non-nil error aborts the dispatch that invoked
// the reducer; the caller's state is left as it was.
type Reducer[S any] func(state S, action Action) (S, error)

// Pure adapts an infallible reduction function to a Reducer.
func Pure[S any](fn func(state S, action Action) S) Reducer[S] {
	return func(state S, action Action) (S, error) {
		return fn(state, action), nil
	}
}

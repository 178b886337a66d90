/*
Package domain contains the core types of the strata state container.

It defines what flows through a store (Actions), what a store holds (State),
and how one becomes the other (Reducers). This package is kept pure and free
of I/O; stores, composition and adapters live elsewhere.

# Key Entities

  - Action: a tagged event. Typed[P] carries a strongly-typed payload, Bare carries none.
  - Reducer: a pure function (state, action) -> (state, error).
  - State: an immutable, insertion-ordered mapping of slice name to slice value.
  - StateDiff: the slices that changed between two States.
  - LifecycleHooks: observer callbacks fired around a dispatch.
*/
package domain

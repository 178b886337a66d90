/*
Package ports defines the interfaces shared by strata stores and the adapters
built around them.

# Key Interfaces

  - Store: read, dispatch and subscribe over one state value.
  - StateStore: a Store holding a composed domain.State; what the session
    manager, the HTTP adapter and the Redis notifier work with.
*/
package ports

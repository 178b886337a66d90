/*
Package session manages independent, named stores.

Stores are created explicitly and handed to callers instead of living as
process-wide singletons, so several sessions (or test cases) never interfere.
The Manager creates a session's store on first use and serialises creation
per session ID.
*/
package session

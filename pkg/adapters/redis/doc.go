// Package redis broadcasts store changes over Redis pub/sub.
//
// The Notifier attaches to a store as an ordinary listener and publishes a
// JSON Message holding the StateDiff of each dispatch. Listen is the
// receiving side, used by `strata watch`.
package redis

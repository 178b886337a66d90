/*
Package observability provides tools for monitoring strata stores.

It turns store lifecycle hooks into structured log records (LoggingHooks) and
Prometheus metrics (Metrics), and combines several hook sets into one (Merge).
*/
package observability

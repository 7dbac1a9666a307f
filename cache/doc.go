// Package cache provides a process-wide, concurrency-safe TTL cache with
// LRU eviction for proxy tooling results.
//
// It provides the TTLCache type with atomic get-or-compute and
// pattern-based invalidation, a cancellable background Janitor that purges
// expired entries, colon-delimited key helpers, a memoizing wrapper for
// expensive operations, and a Manager that owns the shared cache lifecycle.
package cache

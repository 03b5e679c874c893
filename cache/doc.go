// Package cache provides a minimal byte-oriented cache abstraction with an
// in-memory default and a Redis-backed implementation. ChainRAG uses it to
// memoize embedding vectors so repeated queries and reindex runs skip the
// upstream embedding call.
package cache

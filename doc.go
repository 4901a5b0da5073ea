// Package lrustore implements a bounded in-memory key-value store with
// least-recently-used eviction.
//
// Components:
//   - internal/hashindex: hand-rolled separate-chaining hash table for key lookup.
//   - Cache: composes the hash index with a recency list and enforces a fixed
//     capacity. Entries live in an arena of slots addressed by stable integer
//     indices; the recency order is a pair of index links threaded through the
//     arena, bounded by head/tail sentinel slots, with a free list for
//     reclaimed slots.
//   - protocol: line-oriented command parsing and RESP-style response encoding.
//   - server: TCP front end driving the protocol over a bounded worker pool.
//
// Concurrency:
//
// Every cache operation, reads included, can reorder the recency list, so
// there is no read-only fast path. Each logical operation runs in one
// exclusive critical section; operations are linearized by lock acquisition
// order. Sharding the keyspace (hash(key) mod N, one engine per shard) would
// reduce contention but turns the global LRU order into a per-shard one, so
// this package keeps the single lock.
package lrustore

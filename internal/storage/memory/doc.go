// Package memory provides the in-memory implementations of storage.KV.
//
// Two implementations are available:
//
//   - Store: one mutex guards the whole key space. Operations are
//     linearized by lock acquisition order. This is the default.
//   - ShardedStore: keys are spread over pkg/cmap shards so that operations
//     on different shards do not contend. Per-key operations stay
//     linearizable.
//
// Both apply lazy expiry: reads compare the stored deadline with the clock
// and reclaim expired entries opportunistically. There is no background
// sweep.
package memory

// Package cmap provides a concurrent map sharded by key hash.
//
// Keys are strings hashed with murmur3; each shard owns a map guarded by its
// own RWMutex, so operations on keys in different shards never contend.
//
// Usage:
//
//	m := cmap.NewWithShards[entry](32)
//	m.Set("key", e)
//	val, ok := m.Get("key")
//
// Compute and DeleteIf run their callback while holding the shard lock, which
// makes read-modify-write sequences atomic per key.
package cmap

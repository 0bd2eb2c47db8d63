package memory

import (
	"time"

	"github.com/yndnr/respkv/internal/storage"
	"github.com/yndnr/respkv/pkg/cmap"
)

var _ storage.KV = (*ShardedStore)(nil)

// ShardedStore is a storage.KV spread over independently locked shards.
type ShardedStore struct {
	data *cmap.Map[entry]
	now  func() time.Time
}

// NewSharded creates an empty ShardedStore. shards must be a power of two;
// other values fall back to cmap.DefaultShardCount.
func NewSharded(shards int, opts ...Option) *ShardedStore {
	o := buildOptions(opts)
	return &ShardedStore{
		data: cmap.NewWithShards[entry](shards),
		now:  o.now,
	}
}

// Shards returns the number of shards in use.
func (s *ShardedStore) Shards() int {
	return s.data.ShardCount()
}

// Set inserts or overwrites key.
func (s *ShardedStore) Set(key, value string, ttl time.Duration) {
	s.data.Set(key, newEntry(value, ttl, s.now()))
}

// Get returns the value of a live key.
func (s *ShardedStore) Get(key string) (string, bool) {
	e, ok := s.data.Get(key)
	if !ok {
		return "", false
	}
	now := s.now()
	if e.expired(now) {
		s.reclaim(key, now)
		return "", false
	}
	return e.value, true
}

// Delete removes a live key.
func (s *ShardedStore) Delete(key string) bool {
	existed := false
	now := s.now()
	s.data.Compute(key, func(e entry, exists bool) (entry, bool) {
		existed = exists && !e.expired(now)
		return e, false
	})
	return existed
}

// Exists reports whether key is live.
func (s *ShardedStore) Exists(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Expire sets a new deadline on a live key.
func (s *ShardedStore) Expire(key string, ttl time.Duration) bool {
	existed := false
	now := s.now()
	s.data.Compute(key, func(e entry, exists bool) (entry, bool) {
		if !exists || e.expired(now) {
			return e, false
		}
		existed = true
		if ttl <= 0 {
			return e, false
		}
		return newEntry(e.value, ttl, now), true
	})
	return existed
}

// TTL returns the remaining lifetime of a live key.
func (s *ShardedStore) TTL(key string) (time.Duration, bool) {
	e, ok := s.data.Get(key)
	if !ok {
		return 0, false
	}
	now := s.now()
	if e.expired(now) {
		s.reclaim(key, now)
		return 0, false
	}
	return e.ttl(now), true
}

// Len returns the number of stored entries.
func (s *ShardedStore) Len() int {
	return s.data.Count()
}

// reclaim deletes key if it is still expired; a concurrent Set may have
// replaced it in the meantime.
func (s *ShardedStore) reclaim(key string, now time.Time) {
	s.data.DeleteIf(key, func(e entry) bool { return e.expired(now) })
}

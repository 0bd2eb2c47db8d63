package memory

import (
	"sync"
	"time"

	"github.com/yndnr/respkv/internal/storage"
)

var _ storage.KV = (*Store)(nil)

// Store is a storage.KV guarded by a single mutex.
type Store struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	o := buildOptions(opts)
	return &Store{
		data: make(map[string]entry),
		now:  o.now,
	}
}

// Set inserts or overwrites key.
func (s *Store) Set(key, value string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = newEntry(value, ttl, s.now())
}

// Get returns the value of a live key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(key)
	if !ok {
		return "", false
	}
	return e.value, true
}

// Delete removes a live key.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live(key); !ok {
		return false
	}
	delete(s.data, key)
	return true
}

// Exists reports whether key is live.
func (s *Store) Exists(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.live(key)
	return ok
}

// Expire sets a new deadline on a live key.
func (s *Store) Expire(key string, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(key)
	if !ok {
		return false
	}
	if ttl <= 0 {
		delete(s.data, key)
		return true
	}
	s.data[key] = newEntry(e.value, ttl, s.now())
	return true
}

// TTL returns the remaining lifetime of a live key.
func (s *Store) TTL(key string) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(key)
	if !ok {
		return 0, false
	}
	return e.ttl(s.now()), true
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// live returns the entry for key if it exists and has not expired, removing
// it when expired. Caller must hold s.mu.
func (s *Store) live(key string) (entry, bool) {
	e, ok := s.data[key]
	if !ok {
		return entry{}, false
	}
	if e.expired(s.now()) {
		delete(s.data, key)
		return entry{}, false
	}
	return e, true
}

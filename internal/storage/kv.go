package storage

import "time"

// NoExpiry is returned by KV.TTL for a live key without a deadline.
const NoExpiry time.Duration = -1

// KV is the key/value store shared by every client connection.
//
// All methods are safe for concurrent use and never fail. A key whose
// expiry instant is at or before the current time is treated as absent
// by every method, even if it is still physically stored.
type KV interface {
	// Set inserts or overwrites key. ttl > 0 sets expiry = now + ttl,
	// ttl <= 0 stores the value without expiry.
	Set(key, value string, ttl time.Duration)

	// Get returns the value of a live key.
	Get(key string) (string, bool)

	// Delete removes a live key and reports whether it existed.
	Delete(key string) bool

	// Exists reports whether key is live.
	Exists(key string) bool

	// Expire sets a new deadline on a live key and reports whether the key
	// existed. ttl <= 0 deletes the key immediately.
	Expire(key string, ttl time.Duration) bool

	// TTL returns the remaining lifetime of a live key, or NoExpiry if it has
	// none. The bool is false when the key is missing or expired.
	TTL(key string) (time.Duration, bool)

	// Len returns the number of physically stored entries, including
	// expired entries that have not been reclaimed yet.
	Len() int
}

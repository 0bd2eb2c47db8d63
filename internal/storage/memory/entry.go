package memory

import (
	"time"

	"github.com/yndnr/respkv/internal/storage"
)

// entry is a stored value with an optional absolute deadline.
// A zero expiresAt means the entry never expires.
type entry struct {
	value     string
	expiresAt time.Time
}

func newEntry(value string, ttl time.Duration, now time.Time) entry {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	return e
}

// expired reports whether the deadline is at or before now.
func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

func (e entry) ttl(now time.Time) time.Duration {
	if e.expiresAt.IsZero() {
		return storage.NoExpiry
	}
	return e.expiresAt.Sub(now)
}

type options struct {
	now func() time.Time
}

// Option configures a store.
type Option func(*options)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

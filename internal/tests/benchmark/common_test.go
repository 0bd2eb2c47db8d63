package benchmark

import (
	"fmt"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/respkv/internal/storage"
	"github.com/yndnr/respkv/internal/storage/memory"
)

// KeyCounts defines the store sizes for benchmarking.
var KeyCounts = []int{1000, 10000, 100000}

// newKey returns a unique, lexically sortable key.
func newKey() string {
	return "bench:" + strings.ToLower(ulid.Make().String())
}

// newValue returns a value of n bytes.
func newValue(n int) string {
	return strings.Repeat("v", n)
}

// stores returns the store variants under test.
func stores() map[string]func() storage.KV {
	return map[string]func() storage.KV{
		"single":  func() storage.KV { return memory.New() },
		"sharded": func() storage.KV { return memory.NewSharded(32) },
	}
}

// prefillStore fills store with count keys, half of them with a TTL.
func prefillStore(store storage.KV, count int) []string {
	keys := make([]string, count)
	value := newValue(64)
	for i := range keys {
		keys[i] = newKey()
		ttl := time.Duration(0)
		if i%2 == 0 {
			ttl = time.Hour
		}
		store.Set(keys[i], value, ttl)
	}
	return keys
}

// reportMemory reports heap usage as a custom metric.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.HeapAlloc)/(1024*1024), prefix+"_heap_MB")
}

func sizeName(n int) string {
	return fmt.Sprintf("keys=%d", n)
}

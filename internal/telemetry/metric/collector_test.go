package metric

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

type fixedSizer int

func (f fixedSizer) Len() int { return int(f) }

func TestCollector_Describe(t *testing.T) {
	c := NewCollector(fixedSizer(0))
	ch := make(chan *prometheus.Desc, 1)
	c.Describe(ch)
	close(ch)

	desc := <-ch
	if desc == nil || !strings.Contains(desc.String(), "respkv_keys") {
		t.Errorf("Describe sent %v, want respkv_keys", desc)
	}
}

func TestCollector_Exposition(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(NewCollector(fixedSizer(42))); err != nil {
		t.Fatalf("Register: %v", err)
	}

	body := scrape(t, r)
	if !strings.Contains(body, "respkv_keys 42") {
		t.Error("exposition missing respkv_keys 42")
	}
}

func TestCollector_DuplicateRegistration(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(NewCollector(fixedSizer(1))); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := r.Register(NewCollector(fixedSizer(1))); err == nil {
		t.Error("registering a second keys collector should fail")
	}
}

package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/yndnr/respkv/internal/infra/buildinfo"
	"github.com/yndnr/respkv/internal/telemetry/metric"
)

// Sizer reports the number of stored entries.
type Sizer interface {
	Len() int
}

// RouterConfig holds configuration for the admin router.
type RouterConfig struct {
	// Metrics is served at /metrics. Nil uses the global registry.
	Metrics *metric.Registry

	// Store is reported by /healthz. May be nil.
	Store Sizer

	// Logger for request logging.
	Logger *slog.Logger
}

// NewRouter creates the admin handler with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	if cfg == nil {
		cfg = &RouterConfig{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = metric.Global()
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", handleHealth(cfg.Store))
	mux.HandleFunc("GET /version", handleVersion)

	// Order: Recover -> RequestID -> AccessLog -> mux
	return Chain(mux,
		Recover(logger),
		RequestID(),
		AccessLog(logger),
	)
}

func handleHealth(store Sizer) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		body := map[string]any{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		}
		if store != nil {
			body["keys"] = store.Len()
		}
		writeJSON(w, http.StatusOK, body)
	}
}

func handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

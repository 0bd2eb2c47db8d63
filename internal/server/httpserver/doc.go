// Package httpserver provides the admin HTTP server for respkv.
//
// It serves operational endpoints only:
//
//   - GET /metrics: Prometheus exposition
//   - GET /healthz: liveness and store size
//   - GET /version: build information
//
// The server is disabled by default and binds to loopback when enabled.
package httpserver

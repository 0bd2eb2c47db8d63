// Package metric provides Prometheus metrics for respkv.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: the metric registry and its HTTP handler
//   - collector.go: a collector that reports the store size on scrape
//
// Metrics include:
//
//   - Command counters and latency histograms, labelled by command
//   - Client connection gauges and counters
//   - Protocol error and rate limit counters
//   - The number of stored keys
//
// Metrics are exposed at /metrics on the admin HTTP server.
package metric

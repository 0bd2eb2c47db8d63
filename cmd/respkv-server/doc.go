// Package main provides the entry point for respkv-server.
//
// The server provides:
//
//   - A RESP (Redis serialization protocol) listener backed by an
//     in-memory key-value store with lazy expiry
//   - An optional admin HTTP listener serving /metrics, /healthz and /version
//
// Usage:
//
//	respkv-server [flags]
//	respkv-server --port 6380
//	respkv-server --config /path/to/config.yaml
//
// Configuration is layered: built-in defaults, then the config file, then
// RESPKV_* environment variables (optionally preloaded from --env-file),
// then command-line flags.
package main

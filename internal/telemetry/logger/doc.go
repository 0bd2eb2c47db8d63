// Package logger provides structured logging for respkv.
//
// It wraps log/slog:
//
//   - logger.go: Logger interface, handler construction, dynamic level
//   - context.go: connection and request IDs carried through context
//   - redact.go: masking of sensitive attributes and oversized values
//
// Records logged with a context gain conn_id and request_id attributes
// when the context carries them. Output is JSON by default; "text" (or
// "console") selects the slog text handler. The level can be changed at
// runtime with SetLevel, which the server wires to configuration file
// reloads.
package logger

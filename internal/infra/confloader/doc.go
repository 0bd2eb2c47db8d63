// Package confloader loads configuration from layered sources.
//
// It wraps koanf and merges, in increasing priority:
//
//  1. Default values (already present in the target struct)
//  2. A YAML configuration file
//  3. Environment variables, optionally preloaded from a .env file
//  4. Command-line flag overrides
//
// Environment variables use the RESPKV_ prefix and a double underscore
// between nesting levels, so RESPKV_SERVER__REDIS__RATE_LIMIT maps to
// server.redis.rate_limit.
//
// Watcher reports writes to the configuration file so that settings which
// are safe to change at runtime can be reloaded.
package confloader

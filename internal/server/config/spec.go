// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for respkv-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Storage StorageSection `koanf:"storage"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Redis RedisConfig `koanf:"redis"`
	HTTP  HTTPConfig  `koanf:"http"`
}

// RedisConfig configures the RESP listener.
type RedisConfig struct {
	Addr string `koanf:"addr"`

	// IdleTimeout closes connections that send nothing for this long.
	// Zero disables it.
	IdleTimeout time.Duration `koanf:"idle_timeout"`

	// WriteTimeout bounds sending a reply. Zero disables it.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// RateLimit is the maximum commands per second per connection.
	// Zero disables rate limiting.
	RateLimit int `koanf:"rate_limit"`

	// MaxClients caps concurrent connections. Zero means unlimited.
	MaxClients int `koanf:"max_clients"`
}

// HTTPConfig configures the admin HTTP server (metrics, health, version).
type HTTPConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// StorageSection configures the in-memory store.
type StorageSection struct {
	// Shards selects the sharded store when greater than 1. It must be a
	// power of two. 0 or 1 keeps the single-lock store.
	Shards int `koanf:"shards"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Package config defines the server configuration structure.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/yndnr/respkv/internal/telemetry/logger"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := verifyLog(&cfg.Log); err != nil {
		return err
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	if err := verifyAddr("server.redis.addr", cfg.Redis.Addr); err != nil {
		return err
	}
	if cfg.Redis.IdleTimeout < 0 {
		return invalid("server.redis.idle_timeout must not be negative")
	}
	if cfg.Redis.WriteTimeout < 0 {
		return invalid("server.redis.write_timeout must not be negative")
	}
	if cfg.Redis.RateLimit < 0 {
		return invalid("server.redis.rate_limit must not be negative")
	}
	if cfg.Redis.MaxClients < 0 {
		return invalid("server.redis.max_clients must not be negative")
	}

	if !cfg.HTTP.Enabled {
		return nil
	}
	if err := verifyAddr("server.http.addr", cfg.HTTP.Addr); err != nil {
		return err
	}
	if sameEndpoint(cfg.Redis.Addr, cfg.HTTP.Addr) {
		return invalid("server.http.addr conflicts with server.redis.addr (%s)", cfg.HTTP.Addr)
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	n := cfg.Shards
	if n < 0 {
		return invalid("storage.shards must not be negative")
	}
	if n > 1 && n&(n-1) != 0 {
		return invalid("storage.shards must be a power of two, got %d", n)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return invalid("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
	default:
		return invalid("log.format %q is not one of json, text", cfg.Format)
	}
	return nil
}

func verifyAddr(field, addr string) error {
	if addr == "" {
		return invalid("%s is required", field)
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return invalid("%s: %v", field, err)
	}
	p, err := strconv.Atoi(port)
	if err != nil || p < 0 || p > 65535 {
		return invalid("%s: invalid port %q", field, port)
	}
	return nil
}

// sameEndpoint reports whether two listen addresses would collide. Port 0
// never collides.
func sameEndpoint(a, b string) bool {
	hostA, portA, errA := net.SplitHostPort(a)
	hostB, portB, errB := net.SplitHostPort(b)
	if errA != nil || errB != nil || portA != portB || portA == "0" {
		return false
	}
	return hostA == hostB || isWildcard(hostA) || isWildcard(hostB)
}

func isWildcard(host string) bool {
	return host == "" || host == "0.0.0.0" || host == "::"
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}

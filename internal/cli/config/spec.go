package config

import (
	"net"
	"strconv"
)

// CLIConfig is the configuration for respkv-cli.
type CLIConfig struct {
	// Server connection
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// Output format: pretty, raw, json, yaml
	Output string `yaml:"output"`

	// Dial and per-command timeout in seconds. Zero disables it.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// HistoryFile overrides the REPL history location.
	HistoryFile string `yaml:"history_file,omitempty"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Host:           "127.0.0.1",
		Port:           6379,
		Output:         "pretty",
		TimeoutSeconds: 5,
	}
}

// Addr returns host:port.
func (c *CLIConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

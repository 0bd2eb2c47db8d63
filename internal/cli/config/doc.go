// Package config provides CLI configuration for respkv-cli.
//
// This package defines CLI-specific configuration:
//
//   - spec.go: CLIConfig struct (~/.respkv/cli.yaml)
//   - loader.go: Configuration loading, saving and merging
//
// Values from the file are defaults; command-line flags override them.
package config

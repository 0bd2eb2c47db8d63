package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".respkv", "cli.yaml")
}

// Load loads CLI configuration from file.
//
// A missing file is not an error; the defaults are returned. Fields absent
// from the file keep their default values.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save saves CLI configuration to file.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// Merge overrides cfg with the non-empty flag values.
//
// Recognised keys: host, port, output, timeout.
func Merge(cfg *CLIConfig, flags map[string]string) (*CLIConfig, error) {
	out := *cfg
	for key, value := range flags {
		if value == "" {
			continue
		}
		switch key {
		case "host":
			out.Host = value
		case "port":
			port, err := strconv.Atoi(value)
			if err != nil || port < 1 || port > 65535 {
				return nil, fmt.Errorf("invalid port %q", value)
			}
			out.Port = port
		case "output":
			out.Output = value
		case "timeout":
			secs, err := strconv.Atoi(value)
			if err != nil || secs < 0 {
				return nil, fmt.Errorf("invalid timeout %q", value)
			}
			out.TimeoutSeconds = secs
		}
	}
	return &out, nil
}

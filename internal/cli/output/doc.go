// Package output renders server replies for respkv-cli.
//
//   - formatter.go: Formatter interface and factory
//   - pretty.go: redis-cli style rendering for terminals
//   - raw.go: unadorned values for scripting
//   - json.go: JSON output formatting
//   - yaml.go: YAML output formatting
package output

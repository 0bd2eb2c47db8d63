// Package repl provides interactive mode for respkv-cli.
//
// This package implements the Read-Eval-Print Loop for interactive sessions:
//
//   - repl.go: Main REPL loop and command dispatch
//   - completer.go: Command table, prefix completion and help text
//   - history.go: Command history persistence
package repl

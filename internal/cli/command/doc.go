// Package command provides the respkv-cli application.
//
// It uses urfave/cli/v2 for flag parsing. Arguments after the flags are
// sent to the server as one command; with no arguments the interactive
// REPL starts.
//
//   - root.go: App definition, global flags and mode detection
//   - runner.go: sends commands and formats replies
package command

// Package main provides the entry point for respkv-cli.
//
// Usage:
//
//	respkv-cli [options] COMMAND [ARG ...]   run one command and exit
//	respkv-cli [options]                     start the interactive prompt
//
// Examples:
//
//	respkv-cli SET greeting "hello world"
//	respkv-cli -p 6380 -o json GET greeting
package main

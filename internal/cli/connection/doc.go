// Package connection provides the RESP client used by respkv-cli.
//
// This package manages the connection to a respkv server:
//
//   - client.go: TCP client that sends commands and reads replies
//   - args.go: splitting of interactive input lines into arguments
//
// Commands are always sent as arrays of bulk strings. A connection that
// fails mid-command is dropped and redialed on the next call.
package connection

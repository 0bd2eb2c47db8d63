// Package redisserver serves the key/value store over the RESP wire
// protocol.
//
// A Server accepts TCP connections and runs one goroutine per client. Each
// goroutine decodes frames with pkg/resp, hands top-level arrays to the
// CommandHandler and writes the reply back. Framing violations close the
// connection; command errors are sent as RESP errors and the connection
// stays open.
//
// Supported commands: PING, ECHO, SET, GET, DEL, EXISTS, EXPIRE, TTL,
// DBSIZE and QUIT.
package redisserver

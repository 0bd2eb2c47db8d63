// Package resp implements the RESP2 wire protocol used by respkv.
//
// The package is split into three parts:
//
//   - value.go: the closed set of protocol values (Value and its variants)
//   - reader.go: Reader, which decodes a byte stream into Values
//   - writer.go: Writer and AppendValue, which encode Values back to bytes
//
// Framing follows the Redis protocol: every frame starts with a one-byte type
// tag and ends with CRLF. Bulk strings carry a declared length followed by the
// raw payload, arrays carry a declared count followed by that many nested
// frames. A line that does not start with a known tag is read as an inline
// command and returned as an Array of BulkString.
//
// Usage:
//
//	r := resp.NewReader(conn)
//	w := resp.NewWriter(conn)
//	v, err := r.ReadValue()
//	...
//	_ = w.WriteValue(resp.SimpleString("OK"))
//	_ = w.Flush()
package resp

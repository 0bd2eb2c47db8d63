package resp

import (
	"strconv"
	"unicode/utf8"
)

// Type tags.
const (
	TagSimpleString = '+'
	TagError        = '-'
	TagInteger      = ':'
	TagBulkString   = '$'
	TagArray        = '*'
)

// Value is a single RESP protocol value.
//
// The set of implementations is closed: SimpleString, Error, Integer,
// BulkString, BinaryBulkString, Null, NullArray and Array.
type Value interface {
	// Type returns a short human readable name of the variant.
	Type() string

	respValue()
}

// SimpleString is a short non-binary status string ("+OK").
type SimpleString string

// Error is an error reply ("-ERR ...").
type Error string

// Integer is a signed 64-bit integer (":42").
type Integer int64

// BulkString is a length-prefixed string holding valid UTF-8.
type BulkString string

// BinaryBulkString is a length-prefixed string with arbitrary bytes.
type BinaryBulkString []byte

// Null is the absent bulk string ("$-1").
type Null struct{}

// NullArray is the absent array ("*-1").
type NullArray struct{}

// Array is an ordered sequence of values.
type Array []Value

func (SimpleString) Type() string     { return "simple-string" }
func (Error) Type() string            { return "error" }
func (Integer) Type() string          { return "integer" }
func (BulkString) Type() string       { return "bulk-string" }
func (BinaryBulkString) Type() string { return "binary-bulk-string" }
func (Null) Type() string             { return "null" }
func (NullArray) Type() string        { return "null-array" }
func (Array) Type() string            { return "array" }

func (SimpleString) respValue()     {}
func (Error) respValue()            {}
func (Integer) respValue()          {}
func (BulkString) respValue()       {}
func (BinaryBulkString) respValue() {}
func (Null) respValue()             {}
func (NullArray) respValue()        {}
func (Array) respValue()            {}

// Text resolves v to a string if it carries text: a SimpleString, a
// BulkString, or a BinaryBulkString whose bytes are valid UTF-8.
func Text(v Value) (string, bool) {
	switch t := v.(type) {
	case SimpleString:
		return string(t), true
	case BulkString:
		return string(t), true
	case BinaryBulkString:
		if !utf8.Valid(t) {
			return "", false
		}
		return string(t), true
	default:
		return "", false
	}
}

// Bulk returns the bulk representation of b: BulkString when b is valid
// UTF-8, BinaryBulkString otherwise.
func Bulk(b []byte) Value {
	if utf8.Valid(b) {
		return BulkString(b)
	}
	out := make([]byte, len(b))
	copy(out, b)
	return BinaryBulkString(out)
}

// StringArray builds an Array of BulkString, the shape of a client request.
func StringArray(items ...string) Array {
	out := make(Array, len(items))
	for i, s := range items {
		out[i] = BulkString(s)
	}
	return out
}

// IsNull reports whether v is Null or NullArray.
func IsNull(v Value) bool {
	switch v.(type) {
	case Null, NullArray:
		return true
	default:
		return false
	}
}

// ToNative converts v into plain Go values for JSON/YAML rendering.
// Null variants become nil, errors become a map with a single "error" key.
func ToNative(v Value) any {
	switch t := v.(type) {
	case SimpleString:
		return string(t)
	case Error:
		return map[string]string{"error": string(t)}
	case Integer:
		return int64(t)
	case BulkString:
		return string(t)
	case BinaryBulkString:
		return strconv.Quote(string(t))
	case Null, NullArray:
		return nil
	case Array:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = ToNative(item)
		}
		return out
	default:
		return nil
	}
}

package resp

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestAppendValue(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{name: "simple string", in: SimpleString("OK"), want: "+OK\r\n"},
		{name: "error", in: Error("ERR no command specified"), want: "-ERR no command specified\r\n"},
		{name: "integer", in: Integer(-7), want: ":-7\r\n"},
		{name: "bulk string", in: BulkString("bar"), want: "$3\r\nbar\r\n"},
		{name: "empty bulk string", in: BulkString(""), want: "$0\r\n\r\n"},
		{name: "multibyte bulk string", in: BulkString("héllo"), want: "$6\r\nhéllo\r\n"},
		{name: "binary bulk string", in: BinaryBulkString{0x00, 0xff}, want: "$2\r\n\x00\xff\r\n"},
		{name: "null", in: Null{}, want: "$-1\r\n"},
		{name: "nil value", in: nil, want: "$-1\r\n"},
		{name: "null array", in: NullArray{}, want: "*-1\r\n"},
		{name: "empty array", in: Array{}, want: "*0\r\n"},
		{
			name: "nested array",
			in:   Array{BulkString("a"), Array{Integer(1), Null{}}},
			want: "*2\r\n$1\r\na\r\n*2\r\n:1\r\n$-1\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(Marshal(tt.in)); got != tt.want {
				t.Errorf("Marshal() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriter_WriteValue(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	if err := w.WriteValue(SimpleString("PONG")); err != nil {
		t.Fatalf("WriteValue: %v", err)
	}
	if err := w.WriteValue(StringArray("GET", "foo")); err != nil {
		t.Fatalf("WriteValue: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("data written before Flush: %q", buf.String())
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	want := "+PONG\r\n*2\r\n$3\r\nGET\r\n$3\r\nfoo\r\n"
	if buf.String() != want {
		t.Errorf("written = %q, want %q", buf.String(), want)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestWriter_FlushError(t *testing.T) {
	w := NewWriter(failingWriter{})
	_ = w.WriteValue(SimpleString("OK"))
	if err := w.Flush(); err == nil {
		t.Error("Flush() should surface the underlying write error")
	}
}

// ============================================================
// Round trip
// ============================================================

func TestRoundTrip(t *testing.T) {
	values := []Value{
		SimpleString("OK"),
		Error("ERR unknown command"),
		Integer(0),
		Integer(1 << 62),
		BulkString("hello world"),
		BulkString("line1\r\nline2"),
		BinaryBulkString{0xde, 0xad, 0xbe, 0xef},
		Null{},
		NullArray{},
		Array{},
		Array{BulkString("SET"), BulkString("k"), BulkString("v")},
		Array{Array{Integer(1), Integer(2)}, Array{SimpleString("x"), Null{}, NullArray{}}},
	}

	for _, v := range values {
		t.Run(v.Type(), func(t *testing.T) {
			wire := Marshal(v)
			got, err := NewReader(bytes.NewReader(wire)).ReadValue()
			if err != nil {
				t.Fatalf("ReadValue(%q) error = %v", wire, err)
			}
			if !reflect.DeepEqual(got, v) {
				t.Errorf("round trip = %#v, want %#v", got, v)
			}
			if again := Marshal(got); !bytes.Equal(again, wire) {
				t.Errorf("re-encoded = %q, want %q", again, wire)
			}
		})
	}
}

func TestRoundTrip_BinaryHoldingText(t *testing.T) {
	// Valid UTF-8 always decodes as BulkString; the wire bytes are identical.
	wire := Marshal(BinaryBulkString("plain"))
	got, err := NewReader(strings.NewReader(string(wire))).ReadValue()
	if err != nil {
		t.Fatalf("ReadValue: %v", err)
	}
	if got != BulkString("plain") {
		t.Errorf("got %#v, want BulkString(\"plain\")", got)
	}
	if !bytes.Equal(Marshal(got), wire) {
		t.Errorf("wire bytes differ after re-encoding")
	}
}

// ============================================================
// Helpers
// ============================================================

func TestText(t *testing.T) {
	tests := []struct {
		name   string
		in     Value
		want   string
		wantOK bool
	}{
		{name: "simple string", in: SimpleString("ping"), want: "ping", wantOK: true},
		{name: "bulk string", in: BulkString("get"), want: "get", wantOK: true},
		{name: "utf8 binary", in: BinaryBulkString("echo"), want: "echo", wantOK: true},
		{name: "invalid binary", in: BinaryBulkString{0xff}, wantOK: false},
		{name: "integer", in: Integer(1), wantOK: false},
		{name: "error", in: Error("ERR"), wantOK: false},
		{name: "null", in: Null{}, wantOK: false},
		{name: "array", in: Array{}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Text(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Text() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestToNative(t *testing.T) {
	in := Array{BulkString("a"), Integer(2), Null{}, Error("ERR x")}
	got := ToNative(in)
	want := []any{"a", int64(2), nil, map[string]string{"error": "ERR x"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToNative() = %#v, want %#v", got, want)
	}
}

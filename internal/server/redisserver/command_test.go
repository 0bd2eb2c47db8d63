package redisserver

import (
	"reflect"
	"testing"
	"time"

	"github.com/yndnr/respkv/internal/storage/memory"
	"github.com/yndnr/respkv/pkg/resp"
)

// ============================================================
// Test helpers
// ============================================================

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func newTestHandler() (*CommandHandler, *memory.Store, *testClock) {
	clock := &testClock{now: time.Unix(1_700_000_000, 0)}
	store := memory.New(memory.WithClock(clock.Now))
	return NewCommandHandler(store, nil, nil), store, clock
}

func cmd(parts ...string) []resp.Value {
	return resp.StringArray(parts...)
}

// ============================================================
// Dispatch table
// ============================================================

func TestDispatch(t *testing.T) {
	tests := []struct {
		name string
		args []resp.Value
		want resp.Value
	}{
		{name: "empty", args: nil, want: resp.Error("ERR no command specified")},
		{name: "integer name", args: []resp.Value{resp.Integer(1)}, want: resp.Error("ERR invalid command")},
		{name: "null name", args: []resp.Value{resp.Null{}}, want: resp.Error("ERR invalid command")},
		{name: "binary name", args: []resp.Value{resp.BinaryBulkString{0xff}}, want: resp.Error("ERR invalid command")},
		{name: "ping", args: cmd("PING"), want: resp.SimpleString("PONG")},
		{name: "ping lowercase", args: cmd("ping"), want: resp.SimpleString("PONG")},
		{name: "ping with argument", args: cmd("PING", "hello"), want: resp.SimpleString("PONG")},
		{name: "ping as simple string", args: []resp.Value{resp.SimpleString("PiNg")}, want: resp.SimpleString("PONG")},
		{name: "echo", args: cmd("ECHO", "hello"), want: resp.BulkString("hello")},
		{name: "echo keeps variant", args: []resp.Value{resp.BulkString("echo"), resp.Integer(42)}, want: resp.Integer(42)},
		{name: "echo simple string", args: []resp.Value{resp.BulkString("echo"), resp.SimpleString("x")}, want: resp.SimpleString("x")},
		{name: "echo arity", args: cmd("ECHO"), want: resp.Error("ERR wrong number of arguments for 'echo' command")},
		{name: "get arity", args: cmd("GET"), want: resp.Error("ERR wrong number of arguments for 'get' command")},
		{name: "get miss", args: cmd("GET", "nope"), want: resp.Null{}},
		{name: "get invalid key", args: []resp.Value{resp.BulkString("GET"), resp.Integer(1)}, want: resp.Error("ERR invalid key")},
		{name: "set arity one", args: cmd("SET"), want: resp.Error("ERR wrong number of arguments for 'set' command")},
		{name: "set arity two", args: cmd("SET", "k"), want: resp.Error("ERR wrong number of arguments for 'set' command")},
		{name: "set extra args", args: cmd("SET", "k", "v", "EX", "10"), want: resp.Error("ERR syntax error")},
		{name: "set invalid key", args: []resp.Value{resp.BulkString("SET"), resp.Null{}, resp.BulkString("v")}, want: resp.Error("ERR invalid key")},
		{name: "set invalid value", args: []resp.Value{resp.BulkString("SET"), resp.BulkString("k"), resp.Array{}}, want: resp.Error("ERR invalid value")},
		{name: "unknown", args: cmd("FLUSHALL"), want: resp.Error("ERR unknown command")},
		{name: "del arity", args: cmd("DEL"), want: resp.Error("ERR wrong number of arguments for 'del' command")},
		{name: "exists arity", args: cmd("EXISTS"), want: resp.Error("ERR wrong number of arguments for 'exists' command")},
		{name: "expire arity", args: cmd("EXPIRE", "k"), want: resp.Error("ERR wrong number of arguments for 'expire' command")},
		{name: "expire not integer", args: cmd("EXPIRE", "k", "soon"), want: resp.Error("ERR value is not an integer or out of range")},
		{name: "expire overflow", args: cmd("EXPIRE", "k", "9223372036854775807"), want: resp.Error("ERR invalid expire time in 'expire' command")},
		{name: "ttl arity", args: cmd("TTL"), want: resp.Error("ERR wrong number of arguments for 'ttl' command")},
		{name: "ttl missing", args: cmd("TTL", "nope"), want: resp.Integer(-2)},
		{name: "dbsize arity", args: cmd("DBSIZE", "x"), want: resp.Error("ERR wrong number of arguments for 'dbsize' command")},
		{name: "quit", args: cmd("QUIT"), want: resp.SimpleString("OK")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _ := newTestHandler()
			got := h.Dispatch(tt.args)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Dispatch(%v) = %#v, want %#v", tt.args, got, tt.want)
			}
		})
	}
}

// ============================================================
// Store interaction
// ============================================================

func TestDispatch_SetThenGet(t *testing.T) {
	h, _, _ := newTestHandler()

	if got := h.Dispatch(cmd("SET", "foo", "bar")); got != resp.SimpleString("OK") {
		t.Fatalf("SET = %#v, want OK", got)
	}
	if got := h.Dispatch(cmd("GET", "foo")); got != resp.BulkString("bar") {
		t.Errorf("GET = %#v, want bulk bar", got)
	}
	// Repeated reads of an unmodified key are stable.
	if got := h.Dispatch(cmd("GET", "foo")); got != resp.BulkString("bar") {
		t.Errorf("second GET = %#v, want bulk bar", got)
	}
}

func TestDispatch_KeysAreCaseSensitive(t *testing.T) {
	h, _, _ := newTestHandler()
	h.Dispatch(cmd("set", "Foo", "Bar"))

	if got := h.Dispatch(cmd("GET", "foo")); got != (resp.Null{}) {
		t.Errorf("GET foo = %#v, want Null", got)
	}
	if got := h.Dispatch(cmd("GET", "Foo")); got != resp.BulkString("Bar") {
		t.Errorf("GET Foo = %#v, want bulk Bar", got)
	}
}

func TestDispatch_SetOverwrites(t *testing.T) {
	h, _, _ := newTestHandler()
	h.Dispatch(cmd("SET", "k", "v1"))
	h.Dispatch(cmd("SET", "k", "v2"))

	if got := h.Dispatch(cmd("GET", "k")); got != resp.BulkString("v2") {
		t.Errorf("GET = %#v, want v2", got)
	}
}

func TestDispatch_SetUTF8Binary(t *testing.T) {
	h, _, _ := newTestHandler()
	got := h.Dispatch([]resp.Value{resp.BulkString("SET"), resp.BinaryBulkString("k"), resp.BinaryBulkString("v")})
	if got != resp.SimpleString("OK") {
		t.Fatalf("SET = %#v, want OK", got)
	}
	if got := h.Dispatch(cmd("GET", "k")); got != resp.BulkString("v") {
		t.Errorf("GET = %#v, want v", got)
	}
}

func TestDispatch_ArityErrorsDoNotMutate(t *testing.T) {
	h, store, _ := newTestHandler()

	h.Dispatch(cmd("SET"))
	h.Dispatch(cmd("SET", "k"))
	h.Dispatch(cmd("SET", "k", "v", "extra"))
	h.Dispatch(cmd("GET"))
	h.Dispatch(cmd("ECHO"))

	if n := store.Len(); n != 0 {
		t.Errorf("store has %d entries after failed commands, want 0", n)
	}
}

func TestDispatch_DelExists(t *testing.T) {
	h, _, _ := newTestHandler()
	h.Dispatch(cmd("SET", "a", "1"))
	h.Dispatch(cmd("SET", "b", "2"))

	if got := h.Dispatch(cmd("EXISTS", "a", "b", "a", "c")); got != resp.Integer(3) {
		t.Errorf("EXISTS = %#v, want 3", got)
	}
	if got := h.Dispatch(cmd("DEL", "a", "c")); got != resp.Integer(1) {
		t.Errorf("DEL = %#v, want 1", got)
	}
	if got := h.Dispatch(cmd("GET", "a")); got != (resp.Null{}) {
		t.Errorf("GET after DEL = %#v, want Null", got)
	}
	if got := h.Dispatch([]resp.Value{resp.BulkString("DEL"), resp.Integer(1)}); got != resp.Error("ERR invalid key") {
		t.Errorf("DEL integer key = %#v, want invalid key", got)
	}
}

func TestDispatch_ExpireAndTTL(t *testing.T) {
	h, _, clock := newTestHandler()
	h.Dispatch(cmd("SET", "session", "abc"))

	if got := h.Dispatch(cmd("TTL", "session")); got != resp.Integer(-1) {
		t.Errorf("TTL without expiry = %#v, want -1", got)
	}
	if got := h.Dispatch(cmd("EXPIRE", "session", "10")); got != resp.Integer(1) {
		t.Errorf("EXPIRE = %#v, want 1", got)
	}
	if got := h.Dispatch(cmd("TTL", "session")); got != resp.Integer(10) {
		t.Errorf("TTL = %#v, want 10", got)
	}
	if got := h.Dispatch(cmd("EXPIRE", "missing", "10")); got != resp.Integer(0) {
		t.Errorf("EXPIRE missing = %#v, want 0", got)
	}

	clock.now = clock.now.Add(10 * time.Second)

	if got := h.Dispatch(cmd("GET", "session")); got != (resp.Null{}) {
		t.Errorf("GET at expiry instant = %#v, want Null", got)
	}
	if got := h.Dispatch(cmd("TTL", "session")); got != resp.Integer(-2) {
		t.Errorf("TTL after expiry = %#v, want -2", got)
	}
}

func TestDispatch_ExpireIntegerArgument(t *testing.T) {
	h, _, _ := newTestHandler()
	h.Dispatch(cmd("SET", "k", "v"))

	got := h.Dispatch([]resp.Value{resp.BulkString("EXPIRE"), resp.BulkString("k"), resp.Integer(5)})
	if got != resp.Integer(1) {
		t.Errorf("EXPIRE with integer = %#v, want 1", got)
	}
}

func TestDispatch_ExpireNonPositiveDeletes(t *testing.T) {
	h, _, _ := newTestHandler()
	h.Dispatch(cmd("SET", "k", "v"))

	if got := h.Dispatch(cmd("EXPIRE", "k", "-1")); got != resp.Integer(1) {
		t.Errorf("EXPIRE -1 = %#v, want 1", got)
	}
	if got := h.Dispatch(cmd("EXISTS", "k")); got != resp.Integer(0) {
		t.Errorf("EXISTS after EXPIRE -1 = %#v, want 0", got)
	}
}

func TestDispatch_DBSize(t *testing.T) {
	h, _, _ := newTestHandler()
	if got := h.Dispatch(cmd("DBSIZE")); got != resp.Integer(0) {
		t.Errorf("DBSIZE = %#v, want 0", got)
	}
	h.Dispatch(cmd("SET", "a", "1"))
	h.Dispatch(cmd("SET", "b", "2"))
	if got := h.Dispatch(cmd("dbsize")); got != resp.Integer(2) {
		t.Errorf("DBSIZE = %#v, want 2", got)
	}
}

func TestIsQuit(t *testing.T) {
	tests := []struct {
		args []resp.Value
		want bool
	}{
		{cmd("QUIT"), true},
		{cmd("quit"), true},
		{cmd("QUITE"), false},
		{nil, false},
		{[]resp.Value{resp.Integer(1)}, false},
	}
	for _, tt := range tests {
		if got := isQuit(tt.args); got != tt.want {
			t.Errorf("isQuit(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

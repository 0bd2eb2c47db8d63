package redisserver

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/respkv/internal/storage"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
	"github.com/yndnr/respkv/pkg/resp"
)

// Replies shared by several commands.
var (
	replyOK   = resp.SimpleString("OK")
	replyPong = resp.SimpleString("PONG")

	errNoCommand      = resp.Error("ERR no command specified")
	errInvalidCommand = resp.Error("ERR invalid command")
	errUnknownCommand = resp.Error("ERR unknown command")
	errInvalidKey     = resp.Error("ERR invalid key")
	errInvalidValue   = resp.Error("ERR invalid value")
	errSyntax         = resp.Error("ERR syntax error")
	errNotInteger     = resp.Error("ERR value is not an integer or out of range")
	errRateLimited    = resp.Error("ERR rate limit exceeded")
)

// CommandHandler executes commands against the store.
//
// Dispatch never performs I/O, so the same handler is shared by every
// connection.
type CommandHandler struct {
	store   storage.KV
	metrics *metric.Registry
	logger  *slog.Logger
}

// NewCommandHandler creates a new CommandHandler. metrics may be nil.
func NewCommandHandler(store storage.KV, metrics *metric.Registry, logger *slog.Logger) *CommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandHandler{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// Dispatch runs the command held in args and returns its reply.
//
// args[0] is the command name and is matched case-insensitively. Keys and
// values are used verbatim.
func (h *CommandHandler) Dispatch(args []resp.Value) resp.Value {
	start := time.Now()
	name, reply := h.dispatch(args)

	status := metric.StatusOK
	if _, isErr := reply.(resp.Error); isErr {
		status = metric.StatusError
	}
	h.metrics.ObserveCommand(name, status, time.Since(start))
	return reply
}

func (h *CommandHandler) dispatch(args []resp.Value) (string, resp.Value) {
	if len(args) == 0 {
		return "none", errNoCommand
	}

	raw, ok := resp.Text(args[0])
	if !ok {
		return "invalid", errInvalidCommand
	}
	cmdName := strings.ToUpper(raw)

	switch cmdName {
	case "PING":
		return "ping", replyPong
	case "ECHO":
		return "echo", h.handleEcho(args)
	case "SET":
		return "set", h.handleSet(args)
	case "GET":
		return "get", h.handleGet(args)
	case "DEL":
		return "del", h.handleDel(args)
	case "EXISTS":
		return "exists", h.handleExists(args)
	case "EXPIRE":
		return "expire", h.handleExpire(args)
	case "TTL":
		return "ttl", h.handleTTL(args)
	case "DBSIZE":
		return "dbsize", h.handleDBSize(args)
	case "QUIT":
		return "quit", replyOK
	default:
		h.logger.Debug("unknown command", "command", logger.Truncate(raw, 64))
		return "unknown", errUnknownCommand
	}
}

// isQuit reports whether args is a QUIT request.
func isQuit(args []resp.Value) bool {
	if len(args) == 0 {
		return false
	}
	name, ok := resp.Text(args[0])
	return ok && strings.EqualFold(name, "QUIT")
}

func wrongArity(cmd string) resp.Error {
	return resp.Error("ERR wrong number of arguments for '" + cmd + "' command")
}

// ECHO <value>
//
// The argument comes back as the same variant it was sent as.
func (h *CommandHandler) handleEcho(args []resp.Value) resp.Value {
	if len(args) < 2 {
		return wrongArity("echo")
	}
	return args[1]
}

// SET <key> <value>
func (h *CommandHandler) handleSet(args []resp.Value) resp.Value {
	if len(args) < 3 {
		return wrongArity("set")
	}
	if len(args) > 3 {
		return errSyntax
	}

	key, ok := resp.Text(args[1])
	if !ok {
		return errInvalidKey
	}
	value, ok := resp.Text(args[2])
	if !ok {
		return errInvalidValue
	}

	h.store.Set(key, value, 0)
	return replyOK
}

// GET <key>
func (h *CommandHandler) handleGet(args []resp.Value) resp.Value {
	if len(args) < 2 {
		return wrongArity("get")
	}

	key, ok := resp.Text(args[1])
	if !ok {
		return errInvalidKey
	}

	value, ok := h.store.Get(key)
	if !ok {
		return resp.Null{}
	}
	return resp.BulkString(value)
}

// DEL <key> [key ...]
func (h *CommandHandler) handleDel(args []resp.Value) resp.Value {
	if len(args) < 2 {
		return wrongArity("del")
	}

	keys, errReply := textKeys(args[1:])
	if errReply != nil {
		return errReply
	}

	var deleted int64
	for _, key := range keys {
		if h.store.Delete(key) {
			deleted++
		}
	}
	return resp.Integer(deleted)
}

// EXISTS <key> [key ...]
//
// A key named twice is counted twice.
func (h *CommandHandler) handleExists(args []resp.Value) resp.Value {
	if len(args) < 2 {
		return wrongArity("exists")
	}

	keys, errReply := textKeys(args[1:])
	if errReply != nil {
		return errReply
	}

	var count int64
	for _, key := range keys {
		if h.store.Exists(key) {
			count++
		}
	}
	return resp.Integer(count)
}

// EXPIRE <key> <seconds>
//
// A non-positive timeout deletes the key.
func (h *CommandHandler) handleExpire(args []resp.Value) resp.Value {
	if len(args) < 3 {
		return wrongArity("expire")
	}
	if len(args) > 3 {
		return errSyntax
	}

	key, ok := resp.Text(args[1])
	if !ok {
		return errInvalidKey
	}
	seconds, ok := integerArg(args[2])
	if !ok {
		return errNotInteger
	}
	if seconds > math.MaxInt64/int64(time.Second) || seconds < math.MinInt64/int64(time.Second) {
		return resp.Error("ERR invalid expire time in 'expire' command")
	}

	if h.store.Expire(key, time.Duration(seconds)*time.Second) {
		return resp.Integer(1)
	}
	return resp.Integer(0)
}

// TTL <key>
//
// Returns:
//   - -2 if the key does not exist
//   - -1 if the key exists but has no associated expire
//   - the remaining seconds, rounded to the nearest second
func (h *CommandHandler) handleTTL(args []resp.Value) resp.Value {
	if len(args) != 2 {
		return wrongArity("ttl")
	}

	key, ok := resp.Text(args[1])
	if !ok {
		return errInvalidKey
	}

	remaining, ok := h.store.TTL(key)
	switch {
	case !ok:
		return resp.Integer(-2)
	case remaining < 0:
		return resp.Integer(-1)
	default:
		return resp.Integer((remaining + time.Second/2) / time.Second)
	}
}

// DBSIZE
//
// Entries that expired but were not reclaimed yet are still counted.
func (h *CommandHandler) handleDBSize(args []resp.Value) resp.Value {
	if len(args) != 1 {
		return wrongArity("dbsize")
	}
	return resp.Integer(h.store.Len())
}

func textKeys(args []resp.Value) ([]string, resp.Value) {
	keys := make([]string, 0, len(args))
	for _, a := range args {
		key, ok := resp.Text(a)
		if !ok {
			return nil, errInvalidKey
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func integerArg(v resp.Value) (int64, bool) {
	if n, ok := v.(resp.Integer); ok {
		return int64(n), true
	}
	s, ok := resp.Text(v)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

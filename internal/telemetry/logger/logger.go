package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is what respkv components log through. Servers that take a
// *slog.Logger get one from Slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	Slog() *slog.Logger
}

// Config selects the level and encoding of a logger.
type Config struct {
	Level     string    // debug, info, warn or error
	Format    string    // json or text
	Output    io.Writer // os.Stderr when nil
	AddSource bool
}

// DefaultConfig logs info and above as JSON to stderr.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "json", Output: os.Stderr}
}

// levels maps accepted level names onto slog levels.
var levels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// level is shared by every logger built with New, so SetLevel retunes all
// of them at once, including ones already handed to running servers.
var level = new(slog.LevelVar)

// New builds a logger. It also resets the shared level to cfg.Level.
func New(cfg Config) (Logger, error) {
	level.Set(parseLevel(cfg.Level))

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	h := newHandler(out, strings.ToLower(cfg.Format), &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return redactSensitive(a)
		},
	})
	return adapter{sl: slog.New(contextHandler{h})}, nil
}

func newHandler(out io.Writer, format string, opts *slog.HandlerOptions) slog.Handler {
	if format == "text" || format == "console" {
		return slog.NewTextHandler(out, opts)
	}
	return slog.NewJSONHandler(out, opts)
}

// SetLevel changes the level of every logger created by New. Unknown
// names mean info.
func SetLevel(name string) {
	level.Set(parseLevel(name))
}

// GetLevel returns the current level name in lower case.
func GetLevel() string {
	return strings.ToLower(level.Level().String())
}

// ValidLevel reports whether name is an accepted level name.
func ValidLevel(name string) bool {
	_, ok := levels[strings.ToLower(name)]
	return ok
}

func parseLevel(name string) slog.Level {
	if l, ok := levels[strings.ToLower(name)]; ok {
		return l
	}
	return slog.LevelInfo
}

// adapter implements Logger on top of a *slog.Logger.
type adapter struct {
	sl *slog.Logger
}

func (l adapter) Debug(msg string, args ...any) { l.sl.Debug(msg, args...) }
func (l adapter) Info(msg string, args ...any) { l.sl.Info(msg, args...) }
func (l adapter) Warn(msg string, args ...any) { l.sl.Warn(msg, args...) }
func (l adapter) Error(msg string, args ...any) { l.sl.Error(msg, args...) }

func (l adapter) With(args ...any) Logger { return adapter{sl: l.sl.With(args...)} }

func (l adapter) Slog() *slog.Logger { return l.sl }

// SetDefault installs l as the log/slog default, so package-level slog
// calls share its handler and level.
func SetDefault(l Logger) {
	slog.SetDefault(l.Slog())
}

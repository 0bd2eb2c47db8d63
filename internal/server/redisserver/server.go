package redisserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/respkv/internal/storage"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
	"github.com/yndnr/respkv/pkg/resp"
)

// Backoff bounds for retrying a failed Accept.
const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// Config holds the RESP server configuration.
type Config struct {
	// Address is the TCP listen address.
	Address string
	// IdleTimeout closes a connection that sends nothing for this long.
	// Zero disables it.
	IdleTimeout time.Duration
	// WriteTimeout bounds flushing a reply. Zero disables it.
	WriteTimeout time.Duration
	// RateLimit is the maximum number of commands per second per
	// connection. Zero disables rate limiting.
	RateLimit int
	// MaxClients caps concurrent connections. Zero means unlimited.
	MaxClients int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Address: "127.0.0.1:6379",
	}
}

// Server represents the RESP protocol server.
type Server struct {
	cfg     *Config
	handler *CommandHandler
	metrics *metric.Registry
	logger  *slog.Logger

	mu    sync.Mutex
	ln    net.Listener
	conns map[*Conn]struct{}

	running atomic.Bool
	wg      sync.WaitGroup
}

// Conn represents a single client connection.
type Conn struct {
	id      string
	netConn net.Conn
	r       *resp.Reader
	w       *resp.Writer
	limiter *rate.Limiter

	closed atomic.Bool
}

func newConn(c net.Conn, rateLimit int) *Conn {
	conn := &Conn{
		id:      ulid.Make().String(),
		netConn: c,
		r:       resp.NewReader(c),
		w:       resp.NewWriter(c),
	}
	if rateLimit > 0 {
		conn.limiter = rate.NewLimiter(rate.Limit(rateLimit), rateLimit)
	}
	return conn
}

// ID returns the connection's unique identifier.
func (c *Conn) ID() string {
	return c.id
}

// Close closes the connection. It is safe to call more than once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// RemoteAddr returns the client's address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

// New creates a new RESP server backed by store. metrics may be nil.
func New(cfg *Config, store storage.KV, metrics *metric.Registry, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		cfg:     cfg,
		handler: NewCommandHandler(store, metrics, logger),
		metrics: metrics,
		logger:  logger,
		conns:   make(map[*Conn]struct{}),
	}
}

// Start binds the listener and serves connections in the background.
// Bind errors are returned directly.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Address, err)
	}
	s.Serve(ctx, ln)
	return nil
}

// Serve accepts connections from ln in the background until Shutdown.
// The server takes ownership of ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) {
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	s.running.Store(true)

	s.logger.Info("resp server listening", "address", ln.Addr().String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil && s.running.Load() {
			s.logger.Error("resp server accept error", "error", err)
		}
	}()
}

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Shutdown stops accepting, closes live connections and waits for their
// goroutines to exit or ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var firstErr error

	s.mu.Lock()
	if s.ln != nil {
		if err := s.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			firstErr = err
		}
	}
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return firstErr
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	var delay time.Duration
	for {
		nc, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}

			// Retry transient failures such as EMFILE with a capped backoff.
			if delay == 0 {
				delay = minAcceptDelay
			} else {
				delay = min(delay*2, maxAcceptDelay)
			}
			s.metrics.AcceptFailed()
			s.logger.Warn("resp server accept error, retrying", "error", err, "delay", delay)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
			continue
		}
		delay = 0

		c := newConn(nc, s.cfg.RateLimit)
		if !s.track(c) {
			s.logger.Warn("max clients reached, rejecting connection", "remote", nc.RemoteAddr().String())
			_ = c.w.WriteValue(resp.Error("ERR max number of clients reached"))
			_ = c.w.Flush()
			_ = c.Close()
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(c)
			s.serveConn(ctx, c)
		}()
	}
}

func (s *Server) track(c *Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running.Load() {
		return false
	}
	if s.cfg.MaxClients > 0 && len(s.conns) >= s.cfg.MaxClients {
		return false
	}
	s.conns[c] = struct{}{}
	s.metrics.ConnOpened()
	return true
}

func (s *Server) untrack(c *Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	s.metrics.ConnClosed()
}

func (s *Server) serveConn(ctx context.Context, c *Conn) {
	defer c.Close()

	ctx = logger.WithConnID(ctx, c.id)
	log := s.logger.With("remote", c.RemoteAddr().String())
	log.DebugContext(ctx, "client connected")

	for {
		if s.cfg.IdleTimeout > 0 {
			if err := c.netConn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout)); err != nil {
				return
			}
		}

		v, err := c.r.ReadValue()
		if err != nil {
			s.handleReadError(ctx, c, log, err)
			return
		}

		args, ok := v.(resp.Array)
		if !ok {
			log.WarnContext(ctx, "closing connection: request is not an array", "type", v.Type())
			s.metrics.ProtocolError("not_array")
			return
		}

		var reply resp.Value
		if c.limiter != nil && !c.limiter.Allow() {
			s.metrics.RateLimitExceeded()
			reply = errRateLimited
		} else {
			reply = s.handler.Dispatch(args)
		}

		if err := c.w.WriteValue(reply); err != nil {
			log.DebugContext(ctx, "write error", "error", err)
			return
		}

		quit := isQuit(args)

		// Replies to pipelined requests are flushed together once the
		// input buffer drains.
		if c.r.Buffered() > 0 && !quit {
			continue
		}
		if err := s.flush(c); err != nil {
			log.DebugContext(ctx, "flush error", "error", err)
			return
		}
		if quit {
			log.DebugContext(ctx, "client quit")
			return
		}
	}
}

func (s *Server) flush(c *Conn) error {
	if s.cfg.WriteTimeout > 0 {
		if err := c.netConn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
			return err
		}
	}
	return c.w.Flush()
}

func (s *Server) handleReadError(ctx context.Context, c *Conn, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		log.DebugContext(ctx, "client disconnected")
		_ = s.flush(c)
	case errors.Is(err, resp.ErrInvalidInput):
		log.WarnContext(ctx, "closing connection: protocol error", "error", err)
		s.metrics.ProtocolError("invalid_frame")
		_ = c.w.WriteValue(resp.Error("ERR Protocol error: " + protocolReason(err)))
		_ = s.flush(c)
	default:
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			log.DebugContext(ctx, "connection idle timeout")
			return
		}
		if !errors.Is(err, net.ErrClosed) {
			log.WarnContext(ctx, "connection read error", "error", err)
		}
	}
}

// protocolReason strips the sentinel prefix from a framing error.
func protocolReason(err error) string {
	msg := err.Error()
	return strings.TrimPrefix(msg, resp.ErrInvalidInput.Error()+": ")
}

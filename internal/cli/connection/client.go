package connection

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/yndnr/respkv/pkg/resp"
)

// ErrNoCommand is returned by Do when called without arguments.
var ErrNoCommand = errors.New("no command specified")

// Client sends commands to a respkv server over TCP.
//
// A Client is not safe for concurrent use.
type Client struct {
	addr    string
	timeout time.Duration

	conn net.Conn
	r    *resp.Reader
	w    *resp.Writer
}

// NewClient creates a client for addr. A zero timeout disables dial and
// I/O deadlines.
func NewClient(addr string, timeout time.Duration) *Client {
	return &Client{addr: addr, timeout: timeout}
}

// Addr returns the server address.
func (c *Client) Addr() string {
	return c.addr
}

// Connect dials the server if not already connected.
func (c *Client) Connect(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}

	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return fmt.Errorf("connect %s: %w", c.addr, err)
	}

	c.conn = conn
	c.r = resp.NewReader(conn)
	c.w = resp.NewWriter(conn)
	return nil
}

// Do sends one command and returns the server reply.
//
// Server-side command errors come back as a resp.Error value with a nil
// error. A non-nil error means the exchange itself failed; the connection
// is closed in that case.
func (c *Client) Do(ctx context.Context, args ...string) (resp.Value, error) {
	if len(args) == 0 {
		return nil, ErrNoCommand
	}
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		_ = c.conn.SetDeadline(time.Now().Add(c.timeout))
	}

	if err := c.w.WriteValue(resp.StringArray(args...)); err != nil {
		return nil, c.fail(fmt.Errorf("send: %w", err))
	}
	if err := c.w.Flush(); err != nil {
		return nil, c.fail(fmt.Errorf("send: %w", err))
	}

	reply, err := c.r.ReadValue()
	if err != nil {
		return nil, c.fail(fmt.Errorf("read reply: %w", err))
	}
	return reply, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn, c.r, c.w = nil, nil, nil
	return err
}

func (c *Client) fail(err error) error {
	_ = c.Close()
	return err
}

package command

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/yndnr/respkv/internal/cli/connection"
	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/pkg/resp"
)

// ErrErrorReply is returned in one-shot mode when the server answered
// with an error. The reply itself has already been printed.
var ErrErrorReply = errors.New("server replied with an error")

// Runner sends commands through a client and writes the formatted reply.
type Runner struct {
	client    *connection.Client
	formatter output.Formatter
	out       io.Writer
}

// NewRunner creates a Runner.
func NewRunner(client *connection.Client, formatter output.Formatter, out io.Writer) *Runner {
	return &Runner{client: client, formatter: formatter, out: out}
}

// Do runs one command, prints the reply and returns it.
func (r *Runner) Do(ctx context.Context, args []string) (resp.Value, error) {
	reply, err := r.client.Do(ctx, args...)
	if err != nil {
		return nil, err
	}

	// The server hangs up after QUIT; drop the connection so the next
	// command redials.
	if strings.EqualFold(args[0], "quit") {
		_ = r.client.Close()
	}

	if err := r.formatter.Format(r.out, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// Execute runs one command for the REPL. A server error reply is printed,
// not returned.
func (r *Runner) Execute(ctx context.Context, args []string) error {
	_, err := r.Do(ctx, args)
	return err
}

// isErrorReply reports whether reply is a server error.
func isErrorReply(reply resp.Value) bool {
	_, ok := reply.(resp.Error)
	return ok
}

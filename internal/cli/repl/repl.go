package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yndnr/respkv/internal/cli/connection"
)

// Executor runs one command. Returned errors are printed and the loop
// continues.
type Executor func(ctx context.Context, args []string) error

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    string
	exec      Executor
	completer *Completer
	history   *History
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithHistory sets the history store.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// New creates a new REPL instance. prompt is printed before "> ".
func New(prompt string, exec Executor, opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		prompt:    prompt + "> ",
		exec:      exec,
		completer: NewCompleter(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.history == nil {
		r.history = NewHistory("")
	}
	return r
}

// History returns the REPL history.
func (r *REPL) History() *History {
	return r.history
}

// Run starts the REPL loop. It returns nil on exit, quit or end of input.
func (r *REPL) Run(ctx context.Context) error {
	reader := bufio.NewReader(r.input)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprint(r.output, r.prompt)

		line, err := reader.ReadString('\n')
		if err == io.EOF && line == "" {
			fmt.Fprintln(r.output)
			return nil
		}
		if err != nil && err != io.EOF {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.history.Add(line)

		switch strings.ToLower(line) {
		case "exit", "quit":
			return nil
		case "help":
			r.printHelp()
			continue
		}

		r.execute(ctx, line)
	}
}

func (r *REPL) execute(ctx context.Context, line string) {
	args, err := connection.SplitArgs(line)
	if err != nil {
		fmt.Fprintf(r.output, "Invalid argument(s)\n")
		return
	}
	if len(args) == 0 {
		return
	}

	if strings.EqualFold(args[0], "help") && len(args) > 1 {
		r.printCommandHelp(args[1])
		return
	}

	if err := r.exec(ctx, args); err != nil {
		fmt.Fprintf(r.output, "Error: %v\n", err)
	}
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.output, "Commands:")
	for _, cmd := range Commands() {
		fmt.Fprintf(r.output, "  %-8s %-16s %s\n", cmd.Name, cmd.Args, cmd.Summary)
	}
	fmt.Fprintln(r.output, "Type \"help <command>\" for one command, \"exit\" to leave.")
}

func (r *REPL) printCommandHelp(name string) {
	for _, cmd := range Commands() {
		if strings.EqualFold(cmd.Name, name) {
			fmt.Fprintf(r.output, "  %s %s\n  %s\n", cmd.Name, cmd.Args, cmd.Summary)
			return
		}
	}
	matches := r.completer.Complete(name)
	if len(matches) == 0 {
		fmt.Fprintf(r.output, "No help for %q\n", name)
		return
	}
	fmt.Fprintf(r.output, "No help for %q. Did you mean: %s\n", name, strings.Join(matches, ", "))
}

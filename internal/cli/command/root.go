package command

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/config"
	"github.com/yndnr/respkv/internal/cli/connection"
	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/internal/cli/repl"
	"github.com/yndnr/respkv/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:            "respkv-cli",
		Usage:           "respkv command-line client",
		UsageText:       "respkv-cli [options] [COMMAND [ARG ...]]",
		Version:         buildinfo.String(),
		Flags:           globalFlags(),
		HideHelpCommand: true,
		Action:          rootAction,
	}
}

// globalFlags returns the global CLI flags. None carry a default so that
// values from the config file apply unless a flag is given.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Aliases: []string{"H"},
			Usage:   "Server hostname (default 127.0.0.1)",
			EnvVars: []string{"RESPKV_CLI_HOST"},
		},
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "Server port (default 6379)",
			EnvVars: []string{"RESPKV_CLI_PORT"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: pretty, raw, json, yaml",
			EnvVars: []string{"RESPKV_CLI_OUTPUT"},
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Dial and command timeout (default 5s, 0 disables)",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "CLI config file (default ~/.respkv/cli.yaml)",
		},
	}
}

// GlobalFlags holds the resolved connection settings.
type GlobalFlags struct {
	Addr    string
	Output  output.Format
	Timeout time.Duration

	HistoryFile string
}

// ParseGlobalFlags merges the config file with command-line flags.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	overrides := map[string]string{
		"host":   c.String("host"),
		"output": c.String("output"),
	}
	if c.IsSet("port") {
		overrides["port"] = strconv.Itoa(c.Int("port"))
	}
	if cfg, err = config.Merge(cfg, overrides); err != nil {
		return nil, err
	}

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if c.IsSet("timeout") {
		timeout = c.Duration("timeout")
	}

	return &GlobalFlags{
		Addr:        cfg.Addr(),
		Output:      format,
		Timeout:     timeout,
		HistoryFile: cfg.HistoryFile,
	}, nil
}

func rootAction(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	client := connection.NewClient(flags.Addr, flags.Timeout)
	defer client.Close()

	runner := NewRunner(client, output.NewFormatter(flags.Output), c.App.Writer)

	if c.NArg() > 0 {
		reply, err := runner.Do(ctx, c.Args().Slice())
		if err != nil {
			return err
		}
		if isErrorReply(reply) {
			return ErrErrorReply
		}
		return nil
	}
	return runInteractive(ctx, c, flags, runner)
}

func runInteractive(ctx context.Context, c *cli.Context, flags *GlobalFlags, runner *Runner) error {
	history := repl.NewHistory(flags.HistoryFile)
	if err := history.Load(); err != nil {
		fmt.Fprintf(c.App.ErrWriter, "warning: load history: %v\n", err)
	}

	r := repl.New(flags.Addr, runner.Execute,
		repl.WithIO(c.App.Reader, c.App.Writer),
		repl.WithHistory(history),
	)
	runErr := r.Run(ctx)

	if err := history.Save(); err != nil {
		fmt.Fprintf(c.App.ErrWriter, "warning: save history: %v\n", err)
	}
	return runErr
}

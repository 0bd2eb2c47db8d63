package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/infra/buildinfo"
	"github.com/yndnr/respkv/internal/infra/confloader"
	"github.com/yndnr/respkv/internal/infra/shutdown"
	"github.com/yndnr/respkv/internal/server/config"
	"github.com/yndnr/respkv/internal/server/httpserver"
	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/storage"
	"github.com/yndnr/respkv/internal/storage/memory"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:            "respkv-server",
		Usage:           "RESP key-value server with expiring keys",
		Version:         buildinfo.String(),
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Load environment variables from this .env file",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "RESP listen host (overrides server.redis.addr)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "RESP listen port (overrides server.redis.addr)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
		},
		Action: func(c *cli.Context) error {
			opts := flagOptions{
				configFile: c.String("config"),
				envFile:    c.String("env-file"),
				host:       c.String("host"),
				logLevel:   c.String("log-level"),
			}
			if c.IsSet("port") {
				opts.port = strconv.Itoa(c.Int("port"))
			}
			return run(c.Context, opts)
		},
	}
}

// flagOptions holds the command-line values that feed configuration.
type flagOptions struct {
	configFile string
	envFile    string
	host       string
	port       string
	logLevel   string
}

func run(ctx context.Context, opts flagOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)
	slogLogger := log.Slog()

	log.Info("starting respkv-server",
		"version", buildinfo.Get().Version,
		"commit", buildinfo.Get().Commit,
		"config", opts.configFile)

	store := newStore(cfg.Storage)

	metrics := metric.NewRegistry()
	if err := metrics.Register(metric.NewCollector(store)); err != nil {
		return fmt.Errorf("register store collector: %w", err)
	}

	shutdownHandler := shutdown.NewHandler(shutdownTimeout, shutdown.WithLogger(slogLogger))

	// Hooks run in reverse order of registration.
	redisServer := redisserver.New(&redisserver.Config{
		Address:      cfg.Server.Redis.Addr,
		IdleTimeout:  cfg.Server.Redis.IdleTimeout,
		WriteTimeout: cfg.Server.Redis.WriteTimeout,
		RateLimit:    cfg.Server.Redis.RateLimit,
		MaxClients:   cfg.Server.Redis.MaxClients,
	}, store, metrics, slogLogger)
	if err := redisServer.Start(ctx); err != nil {
		return fmt.Errorf("start redis server: %w", err)
	}
	log.Info("RESP server listening", "addr", redisServer.Addr().String())
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down RESP server")
		return redisServer.Shutdown(ctx)
	})

	if cfg.Server.HTTP.Enabled {
		router := httpserver.NewRouter(&httpserver.RouterConfig{
			Metrics: metrics,
			Store:   store,
			Logger:  slogLogger,
		})
		httpServer := httpserver.New(cfg.Server.HTTP.Addr, router, slogLogger)
		if err := httpServer.Start(); err != nil {
			_ = shutdownHandler.Shutdown()
			return fmt.Errorf("start admin http server: %w", err)
		}
		log.Info("admin HTTP server listening", "addr", httpServer.Addr().String())
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			log.Info("shutting down admin HTTP server")
			return httpServer.Shutdown(ctx)
		})
	}

	if opts.configFile != "" {
		watcher, err := watchConfig(opts, slogLogger)
		if err != nil {
			log.Warn("config hot reload disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown(func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig layers defaults, file, environment and flags, then verifies
// the result.
func loadConfig(opts flagOptions) (*config.ServerConfig, error) {
	cfg := config.Default()

	loaderOpts := []confloader.Option{}
	if opts.configFile != "" {
		loaderOpts = append(loaderOpts, confloader.WithConfigFile(opts.configFile))
	}
	if opts.envFile != "" {
		loaderOpts = append(loaderOpts, confloader.WithDotEnv(opts.envFile))
	}
	if opts.logLevel != "" {
		loaderOpts = append(loaderOpts, confloader.WithOverrides(map[string]any{
			"log.level": opts.logLevel,
		}))
	}

	if err := confloader.NewLoader(loaderOpts...).Load(cfg); err != nil {
		return nil, err
	}

	if opts.host != "" || opts.port != "" {
		addr, err := overrideAddr(cfg.Server.Redis.Addr, opts.host, opts.port)
		if err != nil {
			return nil, err
		}
		cfg.Server.Redis.Addr = addr
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// overrideAddr replaces the host and/or port of addr.
func overrideAddr(addr, host, port string) (string, error) {
	curHost, curPort, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("server.redis.addr %q: %w", addr, err)
	}
	if host != "" {
		curHost = host
	}
	if port != "" {
		curPort = port
	}
	return net.JoinHostPort(curHost, curPort), nil
}

func newStore(cfg config.StorageSection) storage.KV {
	if cfg.Shards > 1 {
		return memory.NewSharded(cfg.Shards)
	}
	return memory.New()
}

// watchConfig reloads the log level whenever the config file changes.
// Other settings need a restart.
func watchConfig(opts flagOptions, log *slog.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(opts.configFile); err != nil {
		_ = watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(path string) {
		cfg, err := loadConfig(opts)
		if err != nil {
			log.Warn("config reload failed", "path", path, "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	watcher.StartAsync()
	return watcher, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"

	"github.com/Makepad-fr/todos/internal/auth"
	"github.com/Makepad-fr/todos/internal/cli"
	"github.com/Makepad-fr/todos/internal/config"
	"github.com/Makepad-fr/todos/internal/logging"
	"github.com/Makepad-fr/todos/internal/model"
	"github.com/Makepad-fr/todos/internal/store"
	"github.com/Makepad-fr/todos/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	// Root flags (apply to every subcommand)
	fs := flag.NewFlagSet("todos", flag.ContinueOnError)
	config.RegisterFlags(fs)
	groupPending := fs.Bool("group", false, "group ls output by pending/done")
	fs.SetInterspersed(false)
	fs.Usage = func() { cli.PrintHelp(os.Stderr) }
	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	configFile, _ := fs.GetString("config")

	cfg, err := config.Load(configFile, fs)
	if err != nil {
		ui.Fail(os.Stderr, "config: "+err.Error())
		return 2
	}
	ui.SetTheme(cfg.UI.Theme)

	// Hand the remaining args to the CLI runner.
	args := fs.Args()
	if len(args) > 0 && args[0] == "auth" {
		return cli.RunAuth(args[1:], os.Stdin, cli.Options{})
	}
	if cfg.Store.Backend == config.BackendRedis && cfg.Redis.Password == "" {
		c, err := auth.Get()
		if err != nil {
			ui.Fail(os.Stderr, "credentials: "+err.Error())
			return 1
		}
		if c != nil {
			cfg.Redis.Password = c.Password
		}
	}
	interactive := len(args) == 0 || args[0] == "ui"

	// The interactive page owns the terminal; without a log file its logs are dropped.
	var logger *log.Logger
	var logCloser io.Closer
	if interactive && cfg.Log.File == "" {
		logger = logging.NewNop()
	} else {
		logger, logCloser, err = logging.Open(cfg.Log.File, cfg.Log.Level, os.Stderr)
		if err != nil {
			ui.Fail(os.Stderr, err.Error())
			return 1
		}
		defer logCloser.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, closer, err := store.Open(ctx, cfg.Store, cfg.Redis)
	if err != nil {
		ui.Fail(os.Stderr, "store: "+err.Error())
		return 1
	}
	defer closer.Close()

	opts := []model.Option{model.WithLogger(logger)}
	if f, ok := model.ParseFilter(cfg.UI.DefaultFilter); ok {
		opts = append(opts, model.WithFilter(f))
	} else {
		logger.Warn("unknown default filter, using Active", "filter", cfg.UI.DefaultFilter)
	}
	m, err := model.New(ctx, s, opts...)
	if err != nil {
		ui.Fail(os.Stderr, "load: "+err.Error())
		return 1
	}
	logger.Debug("loaded", "todos", len(m.Todos()), "backend", cfg.Store.Backend, "config", cfg.File)

	code := cli.Run(ctx, m, args, cli.Options{
		Group:  *groupPending,
		Logger: logger,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	return code
}

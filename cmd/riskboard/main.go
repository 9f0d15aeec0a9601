package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/riskboard/internal/cli"
	"github.com/alexanderramin/riskboard/internal/config"
	"github.com/alexanderramin/riskboard/internal/logging"
	"github.com/alexanderramin/riskboard/internal/runtime"
	"github.com/alexanderramin/riskboard/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interactive := func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// The store is only opened by commands that need it, so `riskboard env`
	// works with a broken configuration.
	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}()

	app := &cli.App{IsInteractive: interactive}
	app.Connect = func(ctx context.Context) (service.TaskService, error) {
		cfg, err := config.NewEnvReader().Read()
		if err != nil {
			return nil, err
		}

		// Log lines would tear the dashboard, so they are dropped unless a
		// file is configured or a local run writes to a pipe.
		var fallback io.Writer = io.Discard
		if cfg.Env == config.EnvLocal && !interactive() {
			fallback = os.Stderr
		}
		logger, closeLog, err := logging.New(logging.FromConfig(cfg, fallback))
		if err != nil {
			return nil, err
		}
		closers = append(closers, closeLog)

		rt, err := runtime.New(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		closers = append(closers, rt.Close)

		logger.Debug().Str("backend", rt.Backend).Msg("store connected")
		return rt.Tasks, nil
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/rapidrun/internal/adapters/flatfile"
	"github.com/okian/rapidrun/internal/adapters/repository"
	service "github.com/okian/rapidrun/internal/app"
	"github.com/okian/rapidrun/internal/cli"
	"github.com/okian/rapidrun/internal/config"
	"github.com/okian/rapidrun/internal/domain/selection"
	"github.com/okian/rapidrun/internal/domain/timing"
	"github.com/okian/rapidrun/pkg/logger"
)

func main() {
	// Logs go to stderr so stdout stays the menu.
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithWriter(os.Stderr), logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, os.Stdin, os.Stdout, logger.Get()); err != nil && !errors.Is(err, context.Canceled) {
		logger.Get().Error(ctx, "rapidrun failed", logger.Error(err))
		os.Exit(1)
	}
}

// run wires the session from cfg and drives the menu until exit.
func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, log logger.Logger) error {
	session, err := newSession(cfg, log)
	if err != nil {
		return err
	}
	defer session.Close(context.WithoutCancel(ctx))

	skipped, err := session.Open(ctx)
	if err != nil {
		return err
	}
	for _, le := range skipped {
		fmt.Fprintf(out, "Ignoring invalid line %d: %s\n", le.Line, le.Content)
	}

	return cli.New(session, in, out, cli.WithLogger(log.Named("cli"))).Run(ctx)
}

func newSession(cfg *config.Config, log logger.Logger) (*service.Session, error) {
	groups := cfg.GroupSet()

	file, err := flatfile.New(cfg.DataFile,
		flatfile.WithGroups(groups),
		flatfile.WithLogger(log.Named("flatfile")),
	)
	if err != nil {
		return nil, fmt.Errorf("data file: %w", err)
	}

	// One source drives both draws so a fixed seed replays a whole run.
	src := selection.NewSource(cfg.Seed)

	return service.New(
		service.WithStore(repository.NewMemoryStore(repository.WithGroups(groups))),
		service.WithPersistence(file),
		service.WithSelector(selection.NewSelector(selection.WithSource(src))),
		service.WithTimer(timing.NewTimer(
			timing.WithSource(src),
			timing.WithRange(cfg.DurationMin, cfg.DurationMax),
			timing.WithMarker(cfg.Marker),
		)),
		service.WithLogger(log.Named("session")),
		service.WithMetricsFile(cfg.MetricsFile),
	), nil
}

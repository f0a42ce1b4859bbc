package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/ncn914491/folio/pkg/cli/config"
	"github.com/ncn914491/folio/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var (
		loggerCfg config.Logger
		sentryCfg config.Sentry
		logger    *slog.Logger
		flush     = func() {}
	)

	// Both are safe to call whether or not Before got that far
	defer func() {
		flush()
		if err := loggerCfg.Close(); err != nil {
			slog.New(slog.NewTextHandler(os.Stderr, nil)).Warn("failed to close log output", slog.Any("error", err))
		}
	}()

	flags := append(loggerCfg.Flags(), sentryCfg.Flags()...)

	app := &cli.Command{
		Name:    "folio",
		Usage:   "Portfolio backend: project feed and contact relay",
		Version: types.Version,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}
			slog.SetDefault(logger)

			// Failures swallowed by the feed loader and the relay reach Sentry
			// through errs.Handle once a DSN is configured
			if flush, err = sentryCfg.Configure(); err != nil {
				flush = func() {}
				return nil, err
			}

			return ctxlog.With(ctx, logger), nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			flush()
			flush = func() {}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdFeed(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		return err
	}

	return nil
}

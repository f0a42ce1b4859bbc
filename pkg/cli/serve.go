package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ncn914491/folio/pkg/cli/config"
	controller "github.com/ncn914491/folio/pkg/controller/http"
	"github.com/ncn914491/folio/pkg/domain/types"
	"github.com/ncn914491/folio/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		feedCfg   config.Feed
		relayCfg  config.Relay
		siteCfg   config.Site
	)

	var flags []cli.Flag
	flags = append(flags, serverCfg.Flags()...)
	flags = append(flags, feedCfg.Flags()...)
	flags = append(flags, relayCfg.Flags()...)
	flags = append(flags, siteCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := siteCfg.Apply(c.IsSet, &feedCfg, &relayCfg); err != nil {
				return err
			}
			if err := feedCfg.Validate(); err != nil {
				return err
			}
			if err := siteCfg.Validate(); err != nil {
				return err
			}

			logger.Info("Starting folio server",
				slog.String("addr", serverCfg.Addr),
				slog.String("account", feedCfg.Account),
			)

			secondary, err := feedCfg.NewSecondary()
			if err != nil {
				return err
			}
			relay, err := relayCfg.NewClient()
			if err != nil {
				return err
			}

			// Lifetime of background work; cancelled on shutdown
			lifeCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			// Create use cases
			loader := usecase.NewFeedLoader(
				types.AccountID(feedCfg.Account),
				feedCfg.NewPrimary(),
				secondary,
				usecase.WithFetchTimeout(feedCfg.Timeout),
			)
			defer loader.Close()

			sessions := usecase.NewContactSessions(lifeCtx, relay, siteCfg.Owner,
				usecase.WithSessionTTL(serverCfg.SessionTTL),
				usecase.WithMaxSessions(serverCfg.MaxSessions),
				usecase.WithSessionRelayTimeout(relayCfg.Timeout),
			)
			defer sessions.Shutdown()

			// The feed loads once, in the background, so the API is available
			// while the sources are being queried
			loader.Mount(lifeCtx)

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				loader,
				sessions,
				controller.WithAddr(serverCfg.Addr),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer shutdownCancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}

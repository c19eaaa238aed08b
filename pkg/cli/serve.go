package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/balatro-mod-manager/bmm/pkg/cli/config"
	controller "github.com/balatro-mod-manager/bmm/pkg/controller/http"
	"github.com/balatro-mod-manager/bmm/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 30 * time.Second

func cmdServe(env *environment) *cli.Command {
	var (
		serverCfg config.Server
		modsCfg   config.Mods
		fetchCfg  config.Fetch
	)

	flags := append(serverCfg.Flags(), modsCfg.Flags()...)
	flags = append(flags, fetchCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			serverCfg.Merge(env.file, c)
			modsCfg.Merge(env.file, c)
			if err := fetchCfg.Merge(env.file, c); err != nil {
				return err
			}
			logger.Debug("Server configuration",
				"server", serverCfg,
				"mods", modsCfg,
				"fetch", fetchCfg,
			)

			logger.Info("Starting bmm server",
				slog.String("addr", serverCfg.Addr),
				slog.Bool("auth", serverCfg.APIToken != ""),
			)

			fetcher, gcs := fetchCfg.NewFetcher(env.fs)
			defer gcs.Close()

			modUC := usecase.NewMods(fetcher, modsCfg.Provider(), usecase.WithFs(env.fs))

			server, err := controller.NewServer(
				ctx,
				modUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithAPIToken(serverCfg.APIToken),
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
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}
			if err := server.WaitJobs(shutdownCtx); err != nil {
				logger.Warn("Background installs still running at shutdown", slog.Any("error", err))
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}

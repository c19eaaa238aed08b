package cli

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/balatro-mod-manager/bmm/pkg/cli/config"
	"github.com/balatro-mod-manager/bmm/pkg/domain/types"
	"github.com/joho/godotenv"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

// environment is shared by all subcommands once the root command is configured
type environment struct {
	fs   afero.Fs
	file *config.FileValues
}

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout)
}

func run(ctx context.Context, args []string, w io.Writer) error {
	var (
		loggerCfg config.Logger
		sentryCfg config.Sentry
		fileCfg   config.File
		logger    *slog.Logger
	)
	env := &environment{fs: afero.NewOsFs()}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return goerr.Wrap(err, "failed to load .env file", goerr.T(types.ErrTagFileRead))
	}

	flags := append(loggerCfg.Flags(), sentryCfg.Flags()...)
	flags = append(flags, fileCfg.Flags()...)

	app := &cli.Command{
		Name:    types.AppName,
		Usage:   "Balatro mod installer",
		Version: types.Version,
		Flags:   flags,
		Writer:  w,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)

			if err := sentryCfg.Configure(); err != nil {
				return nil, err
			}

			env.file, err = fileCfg.Load(env.fs)
			if err != nil {
				return nil, err
			}
			if env.file != nil {
				logger.Debug("Loaded config file", "path", fileCfg.Path, "values", env.file)
			}
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			return loggerCfg.Close()
		},
		Commands: []*cli.Command{
			cmdInstall(env),
			cmdUninstall(env),
			cmdList(env),
			cmdServe(env),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		sentryCfg.Report(err)
		return err
	}

	return nil
}

package config

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/balatro-mod-manager/bmm/pkg/domain/types"
	"github.com/fatih/color"
	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
	"github.com/urfave/cli/v3"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger holds logger configuration
type Logger struct {
	Level  string
	Format string
	File   string

	closer io.Closer
}

// Flags returns CLI flags for logger configuration
func (c *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &c.Level,
			Sources:     cli.EnvVars("BMM_LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console, text, json)",
			Value:       "console",
			Destination: &c.Format,
			Sources:     cli.EnvVars("BMM_LOG_FORMAT"),
		},
		&cli.StringFlag{
			Name:        "log-file",
			Usage:       "Write logs to a rotated file instead of stderr",
			Destination: &c.File,
			Sources:     cli.EnvVars("BMM_LOG_FILE"),
		},
	}
}

// Configure configures and returns a logger
func (c *Logger) Configure() (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(c.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, goerr.New("invalid log level",
			goerr.T(types.ErrTagInvalidState),
			goerr.V("level", c.Level),
		)
	}

	var w io.Writer = os.Stderr
	if c.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   c.File,
			MaxSize:    10,
			MaxBackups: 3,
			Compress:   true,
			LocalTime:  true,
		}
		c.closer = rotator
		w = rotator
	}

	// fields tagged `masq:"secret"` never reach the output
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: masq.New(masq.WithTag("secret")),
	}

	var handler slog.Handler
	switch strings.ToLower(c.Format) {
	case "console":
		handler = clog.New(
			clog.WithWriter(w),
			clog.WithLevel(level),
			clog.WithColor(c.File == "" && !color.NoColor),
		)
	case "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, goerr.New("invalid log format",
			goerr.T(types.ErrTagInvalidState),
			goerr.V("format", c.Format),
		)
	}

	return slog.New(handler), nil
}

// Close flushes and closes the log file, if any
func (c *Logger) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// Package logger configures the application-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction.
type Options struct {
	Level         string
	Env           string
	File          string
	SentryEnabled bool
}

// New builds the root logger: a level-filtered handler writing to stdout
// (plus a rotated file when configured), wrapped with PII masking and
// fanned out to Sentry when enabled.
func New(opts Options) *slog.Logger {
	level := parseLevel(opts.Level)

	var out io.Writer = os.Stdout
	if opts.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		})
	}

	var base slog.Handler
	if opts.Env == "production" {
		base = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	} else {
		base = slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	}

	handler := slog.Handler(NewMaskingHandler(base))
	if opts.SentryEnabled {
		handler = slogmulti.Fanout(
			handler,
			slogsentry.Option{Level: slog.LevelError}.NewSentryHandler(),
		)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/kenpo-reserve/kenpo-bot/internal/apperr"
	"github.com/kenpo-reserve/kenpo-bot/internal/dispatch"
	"github.com/kenpo-reserve/kenpo-bot/internal/health"
	"github.com/kenpo-reserve/kenpo-bot/internal/i18n"
	"github.com/kenpo-reserve/kenpo-bot/internal/kenpo"
	"github.com/kenpo-reserve/kenpo-bot/internal/lifecycle"
	"github.com/kenpo-reserve/kenpo-bot/internal/ratelimit"
	"github.com/kenpo-reserve/kenpo-bot/internal/server"
	"github.com/kenpo-reserve/kenpo-bot/internal/session"
	"github.com/kenpo-reserve/kenpo-bot/internal/slack"
	"github.com/kenpo-reserve/kenpo-bot/internal/wizard"
	"github.com/kenpo-reserve/kenpo-bot/pkg/config"
	"github.com/kenpo-reserve/kenpo-bot/pkg/graceful"
	"github.com/kenpo-reserve/kenpo-bot/pkg/logger"
	"github.com/kenpo-reserve/kenpo-bot/pkg/metrics"
	redisclient "github.com/kenpo-reserve/kenpo-bot/pkg/redis"
)

const sessionSampleInterval = 30 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("bot exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:         cfg.Log.Level,
		Env:           cfg.AppEnv,
		File:          cfg.Log.File,
		SentryEnabled: cfg.Sentry.Enabled,
	})
	slog.SetDefault(log)

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
	}

	config.Watch(v, log, func(next *config.Config) {
		log.Info("config reloaded", slog.String("log_level", next.Log.Level))
	})

	rdb, err := redisclient.New(ctx, redisclient.Config{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		PoolTimeout:  cfg.Redis.PoolTimeout,
		IdleTimeout:  cfg.Redis.IdleTimeout,
	})
	if err != nil {
		return err
	}

	translations, err := i18n.Load(cfg.I18n.Dir, cfg.I18n.DefaultLang)
	if err != nil {
		return err
	}
	t := translations.Translator(cfg.I18n.DefaultLang)

	store := session.NewRedisStore(rdb, cfg.Session.TTL, log)
	locker := session.NewRedisLocker(rdb, log)
	gateway := kenpo.NewClient(cfg.Kenpo.BaseURL, cfg.Kenpo.Timeout, log)
	engine := wizard.NewEngine(store, gateway, t, log)
	errs := apperr.NewHandler(log, cfg.Sentry.Enabled)
	dispatcher := dispatch.NewDispatcher(store, locker, engine, gateway, errs, t, log)
	responder := slack.NewResponder(10*time.Second, log)
	checker := health.NewChecker(log,
		health.NewRedisChecker(rdb),
		health.NewGatewayChecker(gateway),
	)

	var limiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window, log)
	}

	srv := server.New(dispatcher, responder, checker, limiter, t, log)

	go metrics.SampleActiveSessions(ctx, store, sessionSampleInterval, log)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := graceful.NewServer(log, httpServer, cfg.Server.ShutdownTimeout).ListenAndServe(ctx)
	if errors.Is(serveErr, http.ErrServerClosed) {
		serveErr = nil
	}

	teardown := lifecycle.NewShutdown(log)
	teardown.Register("redis", func(context.Context) error { return rdb.Close() })
	if cfg.Sentry.Enabled {
		teardown.Register("sentry", func(context.Context) error {
			sentry.Flush(2 * time.Second)
			return nil
		})
	}

	teardownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := teardown.Execute(teardownCtx); err != nil {
		if serveErr != nil {
			return fmt.Errorf("%w; teardown: %v", serveErr, err)
		}
		return err
	}

	return serveErr
}

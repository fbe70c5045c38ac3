package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fakhrymubarak/weather-widget/internal/config"
	"github.com/fakhrymubarak/weather-widget/internal/handler"
	"github.com/fakhrymubarak/weather-widget/internal/middleware"
	"github.com/fakhrymubarak/weather-widget/internal/redis"
	"github.com/fakhrymubarak/weather-widget/internal/repository"
	"github.com/fakhrymubarak/weather-widget/internal/service"
	"github.com/fakhrymubarak/weather-widget/internal/view"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := config.GetLogger()
	defer func() { _ = logger.Sync() }()

	if err := run(ctx); err != nil {
		logger.Errorw("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

// buildDeps wires the search pipeline. Redis is only touched when the stale guard is on.
func buildDeps() handler.RouterDeps {
	deps := handler.RouterDeps{
		SearchService: service.NewSearchService(
			repository.NewGeocodingRepository(),
			repository.NewWeatherRepository(),
		),
	}
	if config.IsStaleGuardEnabled() {
		deps.Generations = repository.NewGenerationRepository()
		deps.RedisPing = redis.Ping
	}
	return deps
}

func newServer(h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + config.GetServerPort(),
		Handler:           h,
		ReadHeaderTimeout: config.GetServerTimeoutDuration("read_header_timeout", 15*time.Second),
		ReadTimeout:       config.GetServerTimeoutDuration("read_timeout", 15*time.Second),
		WriteTimeout:      config.GetServerTimeoutDuration("write_timeout", 30*time.Second),
		IdleTimeout:       config.GetServerTimeoutDuration("idle_timeout", 60*time.Second),
	}
}

func run(ctx context.Context) error {
	logger := config.GetLogger()

	if err := view.LoadTemplates(); err != nil {
		return err
	}

	deps := buildDeps()
	if deps.RedisPing != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := deps.RedisPing(pingCtx); err != nil {
			logger.Warnw("Redis unreachable, superseded searches will not be discarded until it is", "addr", config.GetRedisAddr(), "error", err)
		}
		cancel()
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Errorw("Redis close", "error", err)
		}
	}()

	done := make(chan struct{})
	defer close(done)
	middleware.StartRateLimiterCleanup(done)

	srv := newServer(handler.NewRouter(deps))

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("Weather widget server running",
			"addr", srv.Addr,
			"default_city", config.GetDefaultCity(),
			"stale_guard", config.IsStaleGuardEnabled(),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetShutdownTimeout())
	defer cancel()

	logger.Infow("HTTP shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

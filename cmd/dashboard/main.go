package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hackgods/clinic-scheduling-dashboard/internal/api"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/clinicapi"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/config"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/live"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/logging"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/metrics"
	redisclient "github.com/hackgods/clinic-scheduling-dashboard/internal/redis"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "dashboard: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("dashboard starting",
		zap.String("env", cfg.Env),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("clinic_api", cfg.ClinicAPIURL),
		zap.String("tz", cfg.Location.String()),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := clinicapi.NewClient(cfg.ClinicAPIURL, cfg.ClinicAPITimeout, logger, metrics.NewUpstreamMetrics(nil))

	var (
		cache     *redisclient.PeopleCache
		cachePing api.Pinger
	)
	if cfg.CacheEnabled() {
		rdb, err := redisclient.NewRedisClient(rootCtx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			logger.Warn("redis unavailable, people cache disabled", zap.Error(err))
		} else {
			defer func() {
				if err := rdb.Close(); err != nil {
					logger.Warn("error closing redis", zap.Error(err))
				}
			}()
			cache = redisclient.NewPeopleCache(rdb, cfg.PeopleCacheTTL)
			cachePing = cache
			logger.Info("connected to Redis", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.PeopleCacheTTL))
		}
	}
	source := redisclient.NewCachedSource(client, cache, logger)

	hub := live.NewHub(source, live.HubConfig{
		Location: cfg.Location,
		Metrics:  metrics.NewViewMetrics(nil),
		Logger:   logger,
	})

	router := api.NewRouter(api.RouterConfig{
		Upstream:       client,
		Source:         source,
		Cache:          source,
		CachePing:      cachePing,
		Hub:            hub,
		Logger:         logger,
		HTTPMetrics:    metrics.NewHTTPMetrics(nil),
		MetricsHandler: promhttp.Handler(),
		Location:       cfg.Location,
		Env:            cfg.Env,
		Version:        cfg.Version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return rootCtx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-rootCtx.Done():
	}

	logger.Info("shutting down dashboard", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("dashboard stopped")
	return nil
}

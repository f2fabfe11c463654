package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/regalo/internal/bootstrap"
	"github.com/kailas-cloud/regalo/internal/config"
	"github.com/kailas-cloud/regalo/internal/db/postgres"
	"github.com/kailas-cloud/regalo/internal/db/redis"
	logpkg "github.com/kailas-cloud/regalo/internal/logger"
	chiTransport "github.com/kailas-cloud/regalo/internal/transport/chi"
	"github.com/kailas-cloud/regalo/internal/usecase/ratelimit"
	"github.com/kailas-cloud/regalo/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting regalo API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("intent_provider", cfg.Intent.Provider),
		zap.Strings("cache_addrs", cfg.Cache.Addrs),
	)

	ctx := context.Background()

	catalog, err := postgres.NewStore(postgres.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetimeSec) * time.Second,
	})
	if err != nil {
		logger.Fatal("Failed to create catalog store", zap.Error(err))
	}
	defer catalog.Close()

	if err := catalog.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Catalog database not ready", zap.Error(err))
	}
	logger.Info("Connected to catalog database")

	cache := connectCache(ctx, &cfg, logger)
	if cache != nil {
		defer cache.Close()
	}

	pipeline, err := bootstrap.Build(&cfg, catalog, cache, logger)
	if err != nil {
		logger.Fatal("Failed to build search pipeline", zap.Error(err))
	}
	logger.Info("Search pipeline ready", zap.String("provider", string(pipeline.Provider)))

	server := chiTransport.NewServer(
		pipeline.Intents,
		pipeline.Search,
		pipeline.Analytics,
		pipeline.Health,
		chiTransport.Pagination{
			DefaultLimit: cfg.Search.DefaultPageSize,
			MaxLimit:     cfg.Search.MaxPageSize,
		},
		logger,
	)
	handler := chiTransport.NewRouter(server, chiTransport.RouterOptions{
		APIKeys:        cfg.Auth.APIKeys,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Limiter:        ratelimit.New(cfg.RateLimitWindow(), cfg.RateLimit.MaxRequests),
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// connectCache returns nil when the cache is not configured or unreachable.
// Parsing works uncached, so a missing cache is logged rather than fatal.
func connectCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) *redis.Store {
	if len(cfg.Cache.Addrs) == 0 {
		logger.Info("Intent cache disabled")
		return nil
	}

	store, err := redis.NewStore(redis.Config{
		Addrs:    cfg.Cache.Addrs,
		Password: cfg.Cache.Password,
	})
	if err != nil {
		logger.Warn("Intent cache unavailable", zap.Error(err))
		return nil
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
		logger.Warn("Intent cache not ready", zap.Error(err))
		store.Close()
		return nil
	}

	logger.Info("Connected to intent cache")
	return store
}

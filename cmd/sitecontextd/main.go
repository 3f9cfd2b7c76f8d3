package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tjelz/sitecontext"
	"github.com/tjelz/sitecontext/internal/api"
	"github.com/tjelz/sitecontext/internal/config"
	"github.com/tjelz/sitecontext/internal/monitoring"
	"github.com/tjelz/sitecontext/internal/storage"
	log "github.com/tjelz/sitecontext/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		boot, _ := zap.NewProduction()
		boot.Fatal("could not load config", zap.Error(err))
	}

	// Initialize structured logger
	logger, err := log.New(cfg.LogLevel)
	if err != nil {
		boot, _ := zap.NewProduction()
		boot.Fatal("could not build logger", zap.Error(err))
	}
	defer logger.Sync()

	// Initialize Storage Layer. Postgres is optional: with no URL configured
	// the service runs cache-only.
	var pgStore *storage.PostgresStore
	if cfg.PostgresURL != "" {
		pgStore, err = storage.NewPostgresStore(cfg.PostgresURL)
		if err != nil {
			logger.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer pgStore.Close()
	}
	redisStore := storage.NewRedisStore(cfg.RedisAddr)

	// Initialize Monitoring
	metrics := monitoring.NewMetrics()

	// Initialize the context-building service
	svc := sitecontext.New(sitecontext.Options{
		Logger:       logger,
		UserAgent:    cfg.UserAgent,
		FetchTimeout: cfg.FetchTimeoutDuration(),
		Concurrency:  cfg.Concurrency,
	})

	// Initialize API Server
	server := api.NewServer(cfg, svc, pgStore, redisStore, metrics, logger)

	// Graceful Shutdown
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	logger.Info("server started", zap.String("port", cfg.ServerPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/choochoo-labs/conductor/internal/adapter"
	"github.com/choochoo-labs/conductor/internal/config"
	"github.com/choochoo-labs/conductor/internal/generation"
	"github.com/choochoo-labs/conductor/internal/logger"
	"github.com/choochoo-labs/conductor/internal/staging"
	"github.com/choochoo-labs/conductor/internal/sweeper"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadSweeperConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "sweeper",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Conductor sweeper")

	// Initialize adapters
	clock := adapter.NewClock()

	// Connect to Redis
	redisClient := adapter.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("Failed to close Redis client", zap.Error(err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.FatalCtx(ctx, "Failed to connect to Redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr))
	}
	logger.InfoCtx(ctx, "Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	generationCache := generation.NewCache(redisClient, cfg.Orchestrator.GenerationTTL)
	stagingStore := staging.NewStore(redisClient, clock, generationCache, cfg.Orchestrator.StagingTTL)

	stagingSweeper := sweeper.NewStagingSweeper(&sweeper.StagingSweeperConfig{
		WorkerPoolSize: cfg.StagingSweeper.Worker.WorkerPoolSize,
		StuckThreshold: cfg.StagingSweeper.StuckThreshold,
	}, stagingStore, clock)

	errCh := make(chan error, 1)
	go func() {
		if err := stagingSweeper.Start(ctx); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", stagingSweeper.Name()))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := stagingSweeper.Stop(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Sweeper forced to shutdown", zap.Error(err))
	}

	logger.Info("Sweeper stopped")
}

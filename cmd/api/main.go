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
	"github.com/choochoo-labs/conductor/internal/api/middleware"
	"github.com/choochoo-labs/conductor/internal/api/server"
	"github.com/choochoo-labs/conductor/internal/artifacts"
	"github.com/choochoo-labs/conductor/internal/chain"
	"github.com/choochoo-labs/conductor/internal/config"
	"github.com/choochoo-labs/conductor/internal/generation"
	"github.com/choochoo-labs/conductor/internal/lock"
	"github.com/choochoo-labs/conductor/internal/logger"
	"github.com/choochoo-labs/conductor/internal/orchestrator"
	"github.com/choochoo-labs/conductor/internal/promotion"
	"github.com/choochoo-labs/conductor/internal/providers/jetstream"
	"github.com/choochoo-labs/conductor/internal/providers/neynar"
	"github.com/choochoo-labs/conductor/internal/providers/pinata"
	"github.com/choochoo-labs/conductor/internal/ratelimit"
	"github.com/choochoo-labs/conductor/internal/records"
	"github.com/choochoo-labs/conductor/internal/staging"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
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
			"service": "api-server",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Conductor API")

	// Initialize adapters
	clock := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()
	httpClient := adapter.NewHTTPClient(30 * time.Second)

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

	// Connect to the chain RPC
	dialer := adapter.NewEthClientDialer()
	ethClient, err := dialer.Dial(ctx, cfg.Chain.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to chain RPC", zap.Error(err), zap.String("rpc_url", cfg.Chain.RPCURL))
	}
	defer ethClient.Close()

	chainService, err := chain.NewService(chain.Config{
		ContractAddress: cfg.Chain.ContractAddress,
		PrivateKey:      cfg.Chain.PrivateKey,
		ChainID:         cfg.Chain.ChainID,
		ReceiptTimeout:  cfg.Chain.ReceiptTimeout,
	}, ethClient, clock)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create chain service", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to chain",
		zap.String("contract", cfg.Chain.ContractAddress),
		zap.Int64("chain_id", cfg.Chain.ChainID),
	)

	// Connect to NATS JetStream
	publisher, err := jetstream.NewPublisher(jetstream.Config{
		URL:            cfg.NATS.URL,
		StreamName:     cfg.NATS.StreamName,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
		ConnectionName: cfg.NATS.ConnectionName,
	}, adapter.NewNatsJetStream(), jsonAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	defer publisher.Close()
	logger.InfoCtx(ctx, "Connected to NATS", zap.String("url", cfg.NATS.URL))

	// Create the outbound rate limiter shared by social-graph calls
	rateLimitProxy, err := ratelimit.NewProxy(ratelimit.Config{
		Provider:          neynar.PROVIDER_NAME,
		RequestsPerSecond: cfg.RateLimiter.RequestsPerSecond,
		Burst:             cfg.RateLimiter.Burst,
		MaxQueueTime:      cfg.RateLimiter.MaxQueueTime,
		MaxWorkers:        cfg.RateLimiter.MaxWorkers,
		MaxQueueSize:      cfg.RateLimiter.MaxQueueSize,
	}, redisClient, clock)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create rate limiter", zap.Error(err))
	}
	defer rateLimitProxy.Close()

	// Create providers
	socialClient := neynar.NewClient(httpClient, rateLimitProxy, jsonAdapter,
		cfg.Neynar.APIURL, cfg.Neynar.APIKey, cfg.Neynar.SignerUUID)
	pinningClient := pinata.NewClient(httpClient, jsonAdapter, cfg.Pinata.APIURL, cfg.Pinata.JWT)
	artifactService := artifacts.NewService(httpClient, jsonAdapter, pinningClient, cfg.Artifacts.GeneratorURL)

	// Create core components
	lockManager := lock.NewManager(redisClient)
	generationCache := generation.NewCache(redisClient, cfg.Orchestrator.GenerationTTL)
	stagingStore := staging.NewStore(redisClient, clock, generationCache, cfg.Orchestrator.StagingTTL)
	promoter := promotion.NewPromoter(redisClient, clock)
	recordsStore := records.NewStore(redisClient)

	orch := orchestrator.New(
		orchestrator.Config{LockTTL: cfg.Orchestrator.LockTTL},
		lockManager,
		stagingStore,
		generationCache,
		promoter,
		recordsStore,
		chainService,
		socialClient,
		artifactService,
		publisher,
		clock,
	)

	// Create server config
	serverConfig := server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
	}

	// Create and start server
	srv := server.New(serverConfig, orch, recordsStore, stagingStore, redisClient)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("API server stopped")
}

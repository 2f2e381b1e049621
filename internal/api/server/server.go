package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/choochoo-labs/conductor/internal/adapter"
	"github.com/choochoo-labs/conductor/internal/api/middleware"
	"github.com/choochoo-labs/conductor/internal/api/rest"
	"github.com/choochoo-labs/conductor/internal/logger"
	"github.com/choochoo-labs/conductor/internal/orchestrator"
	"github.com/choochoo-labs/conductor/internal/records"
	"github.com/choochoo-labs/conductor/internal/staging"
)

// Config holds the server configuration
type Config struct {
	Debug        bool
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Auth         middleware.AuthConfig
}

// Server wraps the HTTP server
type Server struct {
	config       Config
	orchestrator orchestrator.Orchestrator
	records      records.Store
	staging      staging.Store
	redis        adapter.RedisClient
	httpServer   *http.Server
}

// New creates a new API server
func New(
	cfg Config,
	orch orchestrator.Orchestrator,
	recordsStore records.Store,
	stagingStore staging.Store,
	redis adapter.RedisClient,
) *Server {
	return &Server{
		config:       cfg,
		orchestrator: orch,
		records:      recordsStore,
		staging:      stagingStore,
		redis:        redis,
	}
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	// Set Gin mode based on debug flag
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Setup middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS())

	// Create REST handler
	restHandler := rest.NewHandler(s.orchestrator, s.records, s.staging, s.redis)

	// Setup REST routes
	rest.SetupRoutes(router, restHandler, s.config.Auth)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
	)

	// Start server
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}

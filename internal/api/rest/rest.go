package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/choochoo-labs/conductor/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Train movement endpoints (requires authentication)
		v1.POST("/train/random-send", middleware.Auth(authCfg), handler.RandomSend)
		v1.POST("/train/manual-send", middleware.Auth(authCfg), handler.ManualSend)
		v1.POST("/train/yoink", middleware.Auth(authCfg), handler.Yoink)

		// Read endpoints (public read access)
		v1.GET("/train/current-holder", handler.GetCurrentHolder)
		v1.GET("/train/tracker", handler.GetTracker)
		v1.GET("/tokens/:id", handler.GetToken)

		// Admin endpoints (requires API key authentication only)
		v1.GET("/admin/staging", middleware.APIKeyAuth(authCfg), handler.ListStaging)
		v1.POST("/admin/staging/:id/abandon", middleware.APIKeyAuth(authCfg), handler.AbandonStaging)
	}
}

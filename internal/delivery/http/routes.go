package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/soldbyofficial/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger zerolog.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(RecoveryMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))
	{
		v1.POST("/navigation", handler.Navigation)
		v1.POST("/toggle", handler.Toggle)
		v1.POST("/activate", handler.Activate)
		v1.POST("/deactivate", handler.Deactivate)
		v1.GET("/badge", handler.Badge)
		v1.GET("/lifecycle/:reason", handler.Lifecycle)

		sites := v1.Group("/sites")
		{
			sites.GET("", handler.ListSites)
			sites.POST("/:id/toggle", handler.ToggleSite)
		}
	}

	return router
}

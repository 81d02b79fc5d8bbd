package http

import (
	"github.com/gin-gonic/gin"
	"github.com/productscout/backend/config"
	"github.com/rs/zerolog"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger zerolog.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/query/parse", handler.ParseQuery)
		v1.POST("/score", handler.ScoreListing)
		v1.POST("/match", handler.MatchListings)
		v1.POST("/extract", handler.ExtractFields)
		v1.POST("/supplier/popup", handler.ParsePopup)
		v1.POST("/energy-label", handler.ParseEnergyLabel)
		v1.POST("/report", handler.CreateReport)
	}

	return router
}

package http

import (
	"github.com/gin-gonic/gin"
	"github.com/kalorikoll/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/products/:barcode", handler.LookupProduct)

		catalog := v1.Group("/catalog")
		{
			catalog.GET("", handler.ListCatalog)
			catalog.POST("", handler.SaveCatalogItem)
			catalog.GET("/search", handler.SearchCatalog)
		}

		v1.POST("/targets", handler.ComputeTargets)
		v1.POST("/portions", handler.ScalePortion)

		diary := v1.Group("/diary")
		{
			diary.GET("", handler.ListDiary)
			diary.POST("", handler.LogEntry)
			diary.GET("/summary", handler.DailySummary)
		}
	}

	return router
}

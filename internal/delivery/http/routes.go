package http

import (
	"github.com/gin-gonic/gin"
	"github.com/xaenox/foodie-bot/pkg/config"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg config.ServerConfig, handler *Handler, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit, cfg.RateBurst))
	{
		v1.POST("/chat", handler.Chat)
		v1.GET("/products", handler.SearchProducts)
		v1.GET("/stats", handler.Stats)
		v1.GET("/sessions/:id/history", handler.SessionHistory)
	}

	return router
}

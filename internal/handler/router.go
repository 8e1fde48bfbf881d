package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-rating-sync/internal/middleware"
	"github.com/noah-isme/sma-rating-sync/internal/service"
	"github.com/noah-isme/sma-rating-sync/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-rating-sync/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-rating-sync/pkg/middleware/requestid"
)

// RouterConfig wires the bridge.
type RouterConfig struct {
	Roster         *RosterHandler
	Notifications  *NotificationHandler
	Metrics        *service.MetricsService
	Logger         *zap.Logger
	AllowedOrigins []string
	EnableDocs     bool
}

// NewRouter builds the bridge engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(cfg.Logger))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))

	metricsHandler := NewMetricsHandler(cfg.Metrics)
	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	roster := r.Group("/roster")
	roster.GET("", cfg.Roster.List)
	roster.POST("", cfg.Roster.Add)
	roster.POST("/reload", cfg.Roster.Reload)
	roster.GET("/export", cfg.Roster.Export)
	roster.PUT("/:id/rating", cfg.Roster.Rate)
	roster.DELETE("/:id", cfg.Roster.Remove)

	r.GET("/settings/confirmations", cfg.Roster.GetConfirmations)
	r.PUT("/settings/confirmations", cfg.Roster.SetConfirmations)

	r.GET("/notifications", cfg.Notifications.List)
	r.DELETE("/notifications/:category", cfg.Notifications.Ack)
	r.GET("/outcomes", cfg.Notifications.Outcomes)

	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

package http

import (
	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/wcar/internal/api/middleware"
	"github.com/GriffinCanCode/wcar/internal/infrastructure/logging"
	"github.com/GriffinCanCode/wcar/internal/infrastructure/monitoring"
)

// RouterConfig configures the middleware stack.
type RouterConfig struct {
	RateLimit   *middleware.RateLimitConfig // nil disables rate limiting
	Development bool
}

// NewRouter builds the control API.
func NewRouter(h *Handlers, cfg RouterConfig, logger *logging.Logger) *gin.Engine {
	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(monitoring.Middleware(h.metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(h.metrics.Handler()))

	api := router.Group("/api/v1")
	if cfg.RateLimit != nil {
		api.Use(middleware.RateLimit(*cfg.RateLimit))
	}

	api.GET("/session", h.GetSession)
	api.POST("/session/save", h.SaveSession)
	api.POST("/session/restore", h.RestoreSession)
	api.GET("/monitors", h.ListMonitors)
	api.GET("/apps", h.ListApps)
	api.GET("/history", h.ListHistory)

	return router
}

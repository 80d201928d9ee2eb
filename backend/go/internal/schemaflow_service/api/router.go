package api

import (
	"SchemaFlow/backend/go/internal/metrics"
	"SchemaFlow/backend/go/internal/web"
	"SchemaFlow/backend/go/pkg/httpmiddleware"
	"SchemaFlow/backend/go/pkg/logger"
	"SchemaFlow/backend/go/pkg/ratelimiter"

	"github.com/gin-gonic/gin"
)

// SetupRouter 配置和返回一个 Gin 引擎实例。limiter 为 nil 时不限流。
func SetupRouter(h *Handler, log *logger.Logger, limiter ratelimiter.KeyedRateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		httpmiddleware.RequestLogger(log),
		httpmiddleware.Metrics(metrics.HTTPRequests, metrics.HTTPLatency),
	)

	r.GET("/", web.Index)
	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	if limiter != nil {
		api.Use(httpmiddleware.RateLimit(limiter))
	}
	{
		api.POST("/connect", h.Connect)
		api.POST("/relationships", h.Relationships)
		api.POST("/layout", h.Layout)
		api.POST("/analyze", h.Analyze)
		api.POST("/export", h.Export)
	}

	return r
}

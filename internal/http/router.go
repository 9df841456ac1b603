package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/botbridge-backend/internal/http/handlers"
	httpMW "github.com/yungbote/botbridge-backend/internal/http/middleware"
	"github.com/yungbote/botbridge-backend/internal/observability"
	"github.com/yungbote/botbridge-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	HealthHandler   *httpH.HealthHandler
	SentenceHandler *httpH.SentenceHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// otelgin must run first so AttachTraceContext can fall back to the span
	r.Use(otelgin.Middleware("botbridge"))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readycheck", cfg.HealthHandler.ReadyCheck)
	}

	api := r.Group("/api")
	{
		if cfg.SentenceHandler != nil {
			h := cfg.SentenceHandler

			// Sentences
			api.POST("/sentences", h.Save)
			api.GET("/sentences", h.GetSentences)
			api.GET("/sentences/by-text", h.GetByText)
			api.POST("/sentences/search", h.Search)
			api.DELETE("/sentences", h.PurgeSentences)

			// Bulk rewrites
			api.POST("/sentences/status", h.SwitchStatus)
			api.POST("/sentences/intent", h.SwitchIntent)
			api.POST("/sentences/entity", h.SwitchEntity)

			// Per-application maintenance
			api.GET("/applications/:id/sentences/stats", h.CountByStatus)
			api.POST("/applications/:id/intent-switch", h.SwitchIntentForApplication)
			api.POST("/applications/:id/entity-remove", h.RemoveEntity)
			api.POST("/applications/:id/sub-entity-remove", h.RemoveSubEntity)
			api.DELETE("/applications/:id/sentences", h.DeleteSentences)
		}
	}

	return r
}

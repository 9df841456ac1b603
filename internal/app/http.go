package app

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/botbridge-backend/internal/http"
	httpH "github.com/yungbote/botbridge-backend/internal/http/handlers"
	"github.com/yungbote/botbridge-backend/internal/observability"
	"github.com/yungbote/botbridge-backend/internal/platform/logger"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Sentence *httpH.SentenceHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(db),
		Sentence: httpH.NewSentenceHandler(services.Sentences),
	}
}

func wireRouter(log *logger.Logger, m *observability.Metrics, handlers Handlers) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:             log,
		Metrics:         m,
		HealthHandler:   handlers.Health,
		SentenceHandler: handlers.Sentence,
	})
}

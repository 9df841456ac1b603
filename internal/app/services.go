package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/botbridge-backend/internal/platform/logger"
	"github.com/yungbote/botbridge-backend/internal/realtime/bus"
	"github.com/yungbote/botbridge-backend/internal/services"
)

type Services struct {
	Sentences services.SentenceService
	Bus       bus.Bus
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) Services {
	log.Info("Wiring services...")

	var eventBus bus.Bus
	if cfg.RedisAddr != "" {
		b, err := bus.NewRedisBus(log)
		if err != nil {
			log.Warn("Redis bus init failed, sentence events disabled", "error", err)
			eventBus = bus.NewNoopBus()
		} else {
			eventBus = b
		}
	} else {
		eventBus = bus.NewNoopBus()
	}

	return Services{
		Sentences: services.NewSentenceService(db, log, r.Sentences, eventBus),
		Bus:       eventBus,
	}
}

package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/botbridge-backend/internal/data/repos"
	"github.com/yungbote/botbridge-backend/internal/platform/logger"
)

type Repos struct {
	Sentences repos.SentenceRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Sentences: repos.NewSentenceRepo(db, log),
	}
}

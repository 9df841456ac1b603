package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/botbridge-backend/internal/data/repos/nlu"
	"github.com/yungbote/botbridge-backend/internal/platform/logger"
)

type SentenceRepo = nlu.SentenceRepo

func NewSentenceRepo(db *gorm.DB, baseLog *logger.Logger) SentenceRepo {
	return nlu.NewSentenceRepo(db, baseLog)
}

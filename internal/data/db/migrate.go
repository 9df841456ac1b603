package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/botbridge-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.ClassifiedSentence{},
	)
}

// EnsureSentenceIndexes creates every index the sentence store relies on. It
// runs at boot, before the first query, and every statement is idempotent.
func EnsureSentenceIndexes(db *gorm.DB) error {
	// uuid-ossp is already enabled in NewPostgresService, but safe to re-run
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return fmt.Errorf("enable uuid-ossp: %w", err)
	}

	// Save upserts on this triple, so it has to exist before the first write.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_classified_sentence_text_key
		ON classified_sentence (normalized_text, language, application_id);
	`).Error; err != nil {
		return fmt.Errorf("create idx_classified_sentence_text_key: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_classified_sentence_lang_app_status
		ON classified_sentence (language, application_id, status);
	`).Error; err != nil {
		return fmt.Errorf("create idx_classified_sentence_lang_app_status: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_classified_sentence_status
		ON classified_sentence (status);
	`).Error; err != nil {
		return fmt.Errorf("create idx_classified_sentence_status: %w", err)
	}

	// Search sorts newest-first and anchors pages on updated_at.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_classified_sentence_updated_at
		ON classified_sentence (updated_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_classified_sentence_updated_at: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_classified_sentence_lang_status_intent
		ON classified_sentence (language, status, intent_id);
	`).Error; err != nil {
		return fmt.Errorf("create idx_classified_sentence_lang_status_intent: %w", err)
	}

	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureSentenceIndexes(s.db); err != nil {
		s.log.Error("Sentence index migration failed", "error", err)
		return err
	}

	return nil
}

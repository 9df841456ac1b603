package nlu

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/botbridge-backend/internal/domain"
	"github.com/yungbote/botbridge-backend/internal/normalization"
	"github.com/yungbote/botbridge-backend/internal/platform/apperr"
	"github.com/yungbote/botbridge-backend/internal/platform/logger"
)

// SentenceRepo is the single write/read surface for classified sentences.
// Sentence identity is the (normalized_text, language, application_id)
// triple: Save upserts on it, so callers never check for duplicates first.
type SentenceRepo interface {
	Save(ctx context.Context, tx *gorm.DB, sentences []*types.ClassifiedSentence) error
	GetByText(ctx context.Context, tx *gorm.DB, text, language string, applicationID uuid.UUID) (*types.ClassifiedSentence, error)
	GetSentences(ctx context.Context, tx *gorm.DB, intentIDs []uuid.UUID, language string, status types.SentenceStatus) ([]*types.ClassifiedSentence, error)
	Search(ctx context.Context, tx *gorm.DB, query *types.SentencesQuery) (*types.SentencesQueryResult, error)
	CountByStatus(ctx context.Context, tx *gorm.DB, applicationID uuid.UUID) ([]*types.SentenceStatusCount, error)

	SwitchSentencesStatus(ctx context.Context, tx *gorm.DB, sentences []*types.ClassifiedSentence, status types.SentenceStatus) error
	SwitchSentencesIntent(ctx context.Context, tx *gorm.DB, sentences []*types.ClassifiedSentence, intentID uuid.UUID) error
	SwitchIntentForApplication(ctx context.Context, tx *gorm.DB, applicationID, fromIntentID, toIntentID uuid.UUID) (int64, error)
	SwitchSentencesEntity(ctx context.Context, tx *gorm.DB, sentences []*types.ClassifiedSentence, from, to types.EntityDefinition) error

	RemoveEntityFromSentences(ctx context.Context, tx *gorm.DB, applicationID, intentID uuid.UUID, entity types.EntityDefinition) (int64, error)
	RemoveSubEntityFromSentences(ctx context.Context, tx *gorm.DB, applicationID uuid.UUID, parentType, role string) (int64, error)

	DeleteSentencesByStatus(ctx context.Context, tx *gorm.DB, status types.SentenceStatus) (int64, error)
	DeleteSentencesByApplicationID(ctx context.Context, tx *gorm.DB, applicationID uuid.UUID) (int64, error)
}

type sentenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSentenceRepo(db *gorm.DB, baseLog *logger.Logger) SentenceRepo {
	return &sentenceRepo{db: db, log: baseLog.With("repo", "SentenceRepo")}
}

// Save upserts every sentence on its text triple. normalized_text is always
// recomputed from the current text, never trusted from the caller. On
// conflict the stored row keeps its id and created_at; everything else is
// replaced. Timestamps are caller-owned and only defaulted when zero.
func (r *sentenceRepo) Save(ctx context.Context, tx *gorm.DB, sentences []*types.ClassifiedSentence) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(sentences) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, s := range sentences {
		s.NormalizedText = normalization.TextKey(s.Text)
		if s.Entities == nil {
			// nil marshals to SQL null, which breaks jsonb containment probes
			s.Entities = datatypes.JSONSlice[types.ClassifiedEntity]{}
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = now
		}
	}
	err := t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "normalized_text"}, {Name: "language"}, {Name: "application_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"text",
				"status",
				"intent_id",
				"entities",
				"last_intent_probability",
				"last_entity_probability",
				"updated_at",
			}),
		}).
		CreateInBatches(&sentences, 200).Error
	if err != nil {
		return apperr.Store("save sentences", err)
	}
	return nil
}

func (r *sentenceRepo) GetByText(ctx context.Context, tx *gorm.DB, text, language string, applicationID uuid.UUID) (*types.ClassifiedSentence, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if applicationID == uuid.Nil {
		return nil, apperr.ErrNotFound
	}
	var row types.ClassifiedSentence
	err := t.WithContext(ctx).
		Where("normalized_text = ? AND language = ? AND application_id = ?",
			normalization.TextKey(text), language, applicationID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Store("get sentence by text", err)
	}
	return &row, nil
}

// GetSentences filters by any combination of intent ids, language and status.
// At least one filter must be set; an unfiltered call fails before touching
// the store, since it would stream every sentence of every application.
func (r *sentenceRepo) GetSentences(ctx context.Context, tx *gorm.DB, intentIDs []uuid.UUID, language string, status types.SentenceStatus) ([]*types.ClassifiedSentence, error) {
	if len(intentIDs) == 0 && language == "" && status == "" {
		return nil, fmt.Errorf("%w: at least one of intents, language or status is required", apperr.ErrInvalidQuery)
	}
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).Model(&types.ClassifiedSentence{})
	if len(intentIDs) > 0 {
		q = q.Where("intent_id IN ?", intentIDs)
	}
	if language != "" {
		q = q.Where("language = ?", language)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var out []*types.ClassifiedSentence
	if err := q.Find(&out).Error; err != nil {
		return nil, apperr.Store("get sentences", err)
	}
	return out, nil
}

func (r *sentenceRepo) CountByStatus(ctx context.Context, tx *gorm.DB, applicationID uuid.UUID) ([]*types.SentenceStatusCount, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.SentenceStatusCount
	if applicationID == uuid.Nil {
		return out, nil
	}
	err := t.WithContext(ctx).
		Model(&types.ClassifiedSentence{}).
		Select("status, count(*) as count").
		Where("application_id = ?", applicationID).
		Group("status").
		Order("status").
		Scan(&out).Error
	if err != nil {
		return nil, apperr.Store("count sentences by status", err)
	}
	return out, nil
}

// SwitchSentencesStatus re-saves every given sentence with its status
// replaced and everything else as carried, including timestamps. The loop is
// not transactional: a failure partway leaves the earlier rewrites in place,
// and re-running is safe because each write is an idempotent upsert.
func (r *sentenceRepo) SwitchSentencesStatus(ctx context.Context, tx *gorm.DB, sentences []*types.ClassifiedSentence, status types.SentenceStatus) error {
	for _, s := range sentences {
		if s == nil {
			continue
		}
		s.Status = status
		if err := r.Save(ctx, tx, []*types.ClassifiedSentence{s}); err != nil {
			return err
		}
	}
	return nil
}

// DeleteSentencesByStatus hard-deletes every sentence in the given status
// across all applications. Maintenance operation, typically run against the
// deleted status to empty the archive.
func (r *sentenceRepo) DeleteSentencesByStatus(ctx context.Context, tx *gorm.DB, status types.SentenceStatus) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(ctx).
		Where("status = ?", status).
		Delete(&types.ClassifiedSentence{})
	if res.Error != nil {
		return 0, apperr.Store("delete sentences by status", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *sentenceRepo) DeleteSentencesByApplicationID(ctx context.Context, tx *gorm.DB, applicationID uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if applicationID == uuid.Nil {
		return 0, nil
	}
	res := t.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Delete(&types.ClassifiedSentence{})
	if res.Error != nil {
		return 0, apperr.Store("delete sentences by application", res.Error)
	}
	return res.RowsAffected, nil
}

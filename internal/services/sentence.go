package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/botbridge-backend/internal/data/repos"
	types "github.com/yungbote/botbridge-backend/internal/domain"
	"github.com/yungbote/botbridge-backend/internal/normalization"
	"github.com/yungbote/botbridge-backend/internal/observability"
	"github.com/yungbote/botbridge-backend/internal/platform/apperr"
	"github.com/yungbote/botbridge-backend/internal/platform/logger"
	"github.com/yungbote/botbridge-backend/internal/realtime/bus"
)

// SentenceService is the write path for the sentence store. It canonicalizes
// languages, stamps rewrite timestamps, applies the admin-facing search
// defaults, and publishes change events after successful writes. Batch
// rewrites are not transactional: each sentence's write is an idempotent
// upsert, so re-running a failed batch is safe.
type SentenceService interface {
	Save(ctx context.Context, sentences []*types.ClassifiedSentence) error
	GetByText(ctx context.Context, text, language string, applicationID uuid.UUID) (*types.ClassifiedSentence, error)
	GetSentences(ctx context.Context, intentIDs []uuid.UUID, language string, status types.SentenceStatus) ([]*types.ClassifiedSentence, error)
	Search(ctx context.Context, query *types.SentencesQuery) (*types.SentencesQueryResult, error)
	CountByStatus(ctx context.Context, applicationID uuid.UUID) ([]*types.SentenceStatusCount, error)
	SwitchStatus(ctx context.Context, sentences []*types.ClassifiedSentence, status types.SentenceStatus) error
	SwitchIntent(ctx context.Context, sentences []*types.ClassifiedSentence, intentID uuid.UUID) error
	SwitchIntentForApplication(ctx context.Context, applicationID, fromIntentID, toIntentID uuid.UUID) (int64, error)
	SwitchEntity(ctx context.Context, sentences []*types.ClassifiedSentence, from, to types.EntityDefinition) error
	RemoveEntity(ctx context.Context, applicationID, intentID uuid.UUID, entity types.EntityDefinition) (int64, error)
	RemoveSubEntity(ctx context.Context, applicationID uuid.UUID, parentType, role string) (int64, error)
	DeleteByStatus(ctx context.Context, status types.SentenceStatus) (int64, error)
	DeleteByApplication(ctx context.Context, applicationID uuid.UUID) (int64, error)
}

// maxSearchPageSize caps a single search page. The export CLI walks larger
// result sets page by page instead of raising the cap.
const maxSearchPageSize = 500

type sentenceService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.SentenceRepo
	bus  bus.Bus
}

func NewSentenceService(db *gorm.DB, baseLog *logger.Logger, repo repos.SentenceRepo, eventBus bus.Bus) SentenceService {
	if eventBus == nil {
		eventBus = bus.NewNoopBus()
	}
	return &sentenceService{
		db:   db,
		log:  baseLog.With("service", "SentenceService"),
		repo: repo,
		bus:  eventBus,
	}
}

func (s *sentenceService) Save(ctx context.Context, sentences []*types.ClassifiedSentence) error {
	if len(sentences) == 0 {
		return nil
	}
	for _, sentence := range sentences {
		if sentence == nil {
			continue
		}
		if strings.TrimSpace(sentence.Text) == "" {
			return fmt.Errorf("%w: sentence text required", apperr.ErrInvalidQuery)
		}
		if sentence.ApplicationID == uuid.Nil {
			return fmt.Errorf("%w: application id required", apperr.ErrInvalidQuery)
		}
		sentence.Language = normalization.LanguageTag(sentence.Language)
		if sentence.Status == "" {
			sentence.Status = types.StatusInbox
		}
	}
	if err := s.repo.Save(ctx, s.db, sentences); err != nil {
		return err
	}
	for appID, n := range countByApplication(sentences) {
		s.publish(ctx, bus.SentenceEvent{Type: bus.EventSentencesSaved, ApplicationID: appID, Count: n})
	}
	return nil
}

func (s *sentenceService) GetByText(ctx context.Context, text, language string, applicationID uuid.UUID) (*types.ClassifiedSentence, error) {
	return s.repo.GetByText(ctx, s.db, text, normalization.LanguageTag(language), applicationID)
}

func (s *sentenceService) GetSentences(ctx context.Context, intentIDs []uuid.UUID, language string, status types.SentenceStatus) ([]*types.ClassifiedSentence, error) {
	return s.repo.GetSentences(ctx, s.db, intentIDs, normalization.LanguageTag(language), status)
}

func (s *sentenceService) Search(ctx context.Context, query *types.SentencesQuery) (*types.SentencesQueryResult, error) {
	if query == nil {
		return nil, fmt.Errorf("%w: query required", apperr.ErrInvalidQuery)
	}
	if query.Size > maxSearchPageSize {
		return nil, fmt.Errorf("%w: page size above %d", apperr.ErrInvalidQuery, maxSearchPageSize)
	}
	q := *query
	q.Language = normalization.LanguageTag(q.Language)
	// archived sentences stay out of admin searches unless asked for
	if len(q.Status) == 0 && q.NotStatus == "" {
		q.NotStatus = types.StatusDeleted
	}
	return s.repo.Search(ctx, s.db, &q)
}

func (s *sentenceService) CountByStatus(ctx context.Context, applicationID uuid.UUID) ([]*types.SentenceStatusCount, error) {
	if applicationID == uuid.Nil {
		return nil, fmt.Errorf("%w: application id required", apperr.ErrInvalidQuery)
	}
	return s.repo.CountByStatus(ctx, s.db, applicationID)
}

func (s *sentenceService) SwitchStatus(ctx context.Context, sentences []*types.ClassifiedSentence, status types.SentenceStatus) error {
	if !validStatus(status) {
		return fmt.Errorf("%w: unknown status %q", apperr.ErrInvalidQuery, status)
	}
	if len(sentences) == 0 {
		return nil
	}
	stampUpdated(sentences)
	if err := s.repo.SwitchSentencesStatus(ctx, s.db, sentences, status); err != nil {
		return err
	}
	for appID, n := range countByApplication(sentences) {
		s.publish(ctx, bus.SentenceEvent{Type: bus.EventStatusSwitched, ApplicationID: appID, Count: n})
	}
	return nil
}

func (s *sentenceService) SwitchIntent(ctx context.Context, sentences []*types.ClassifiedSentence, intentID uuid.UUID) error {
	if len(sentences) == 0 {
		return nil
	}
	stampUpdated(sentences)
	if err := s.repo.SwitchSentencesIntent(ctx, s.db, sentences, intentID); err != nil {
		return err
	}
	for appID, n := range countByApplication(sentences) {
		s.publish(ctx, bus.SentenceEvent{Type: bus.EventIntentSwitched, ApplicationID: appID, Count: n})
	}
	return nil
}

func (s *sentenceService) SwitchIntentForApplication(ctx context.Context, applicationID, fromIntentID, toIntentID uuid.UUID) (int64, error) {
	if applicationID == uuid.Nil {
		return 0, fmt.Errorf("%w: application id required", apperr.ErrInvalidQuery)
	}
	n, err := s.repo.SwitchIntentForApplication(ctx, s.db, applicationID, fromIntentID, toIntentID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.publish(ctx, bus.SentenceEvent{Type: bus.EventIntentSwitched, ApplicationID: applicationID, Count: n})
	}
	return n, nil
}

func (s *sentenceService) SwitchEntity(ctx context.Context, sentences []*types.ClassifiedSentence, from, to types.EntityDefinition) error {
	if from.Type == "" || to.Type == "" {
		return fmt.Errorf("%w: entity type required", apperr.ErrInvalidQuery)
	}
	if len(sentences) == 0 {
		return nil
	}
	stampUpdated(sentences)
	if err := s.repo.SwitchSentencesEntity(ctx, s.db, sentences, from, to); err != nil {
		return err
	}
	for appID, n := range countByApplication(sentences) {
		s.publish(ctx, bus.SentenceEvent{Type: bus.EventEntitySwitched, ApplicationID: appID, Count: n})
	}
	return nil
}

func (s *sentenceService) RemoveEntity(ctx context.Context, applicationID, intentID uuid.UUID, entity types.EntityDefinition) (int64, error) {
	if applicationID == uuid.Nil {
		return 0, fmt.Errorf("%w: application id required", apperr.ErrInvalidQuery)
	}
	if entity.Type == "" {
		return 0, fmt.Errorf("%w: entity type required", apperr.ErrInvalidQuery)
	}
	n, err := s.repo.RemoveEntityFromSentences(ctx, s.db, applicationID, intentID, entity)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.publish(ctx, bus.SentenceEvent{Type: bus.EventEntityRemoved, ApplicationID: applicationID, Count: n})
	}
	return n, nil
}

func (s *sentenceService) RemoveSubEntity(ctx context.Context, applicationID uuid.UUID, parentType, role string) (int64, error) {
	if applicationID == uuid.Nil {
		return 0, fmt.Errorf("%w: application id required", apperr.ErrInvalidQuery)
	}
	if strings.TrimSpace(parentType) == "" || strings.TrimSpace(role) == "" {
		return 0, fmt.Errorf("%w: parent entity type and sub entity role required", apperr.ErrInvalidQuery)
	}
	n, err := s.repo.RemoveSubEntityFromSentences(ctx, s.db, applicationID, parentType, role)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.publish(ctx, bus.SentenceEvent{Type: bus.EventEntityRemoved, ApplicationID: applicationID, Count: n})
	}
	return n, nil
}

// DeleteByStatus purges the given status across every application; the
// published event carries a zero application id to mark the global sweep.
func (s *sentenceService) DeleteByStatus(ctx context.Context, status types.SentenceStatus) (int64, error) {
	if !validStatus(status) {
		return 0, fmt.Errorf("%w: unknown status %q", apperr.ErrInvalidQuery, status)
	}
	n, err := s.repo.DeleteSentencesByStatus(ctx, s.db, status)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.publish(ctx, bus.SentenceEvent{Type: bus.EventSentencesDeleted, Count: n})
	}
	return n, nil
}

func (s *sentenceService) DeleteByApplication(ctx context.Context, applicationID uuid.UUID) (int64, error) {
	if applicationID == uuid.Nil {
		return 0, fmt.Errorf("%w: application id required", apperr.ErrInvalidQuery)
	}
	n, err := s.repo.DeleteSentencesByApplicationID(ctx, s.db, applicationID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.publish(ctx, bus.SentenceEvent{Type: bus.EventSentencesDeleted, ApplicationID: applicationID, Count: n})
	}
	return n, nil
}

// publish is best-effort: a dropped event never fails the write it reports.
func (s *sentenceService) publish(ctx context.Context, ev bus.SentenceEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	if m := observability.Current(); m != nil {
		m.IncSentenceEvent(string(ev.Type))
	}
	if err := s.bus.Publish(ctx, ev); err != nil {
		s.log.Warn("sentence event publish failed", "event", string(ev.Type), "error", err)
	}
}

// stampUpdated marks every sentence in a batch rewrite as touched now, so
// the rows drop out of search pages anchored before the rewrite.
func stampUpdated(sentences []*types.ClassifiedSentence) {
	now := time.Now().UTC()
	for _, sentence := range sentences {
		if sentence == nil {
			continue
		}
		sentence.UpdatedAt = now
	}
}

func countByApplication(sentences []*types.ClassifiedSentence) map[uuid.UUID]int64 {
	counts := map[uuid.UUID]int64{}
	for _, sentence := range sentences {
		if sentence == nil {
			continue
		}
		counts[sentence.ApplicationID]++
	}
	return counts
}

func validStatus(status types.SentenceStatus) bool {
	switch status {
	case types.StatusInbox, types.StatusValidated, types.StatusModel, types.StatusDeleted:
		return true
	}
	return false
}

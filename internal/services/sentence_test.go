package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/botbridge-backend/internal/domain"
	"github.com/yungbote/botbridge-backend/internal/platform/apperr"
	"github.com/yungbote/botbridge-backend/internal/platform/logger"
	"github.com/yungbote/botbridge-backend/internal/realtime/bus"
)

type fakeSentenceRepo struct {
	saveCalls   int
	lastSaved   []*types.ClassifiedSentence
	lastQuery   *types.SentencesQuery
	switchCalls int
	lastStatus  types.SentenceStatus
	deleteN     int64
	switchN     int64
	err         error
}

func (f *fakeSentenceRepo) Save(_ context.Context, _ *gorm.DB, sentences []*types.ClassifiedSentence) error {
	f.saveCalls++
	f.lastSaved = sentences
	return f.err
}

func (f *fakeSentenceRepo) GetByText(_ context.Context, _ *gorm.DB, _, _ string, _ uuid.UUID) (*types.ClassifiedSentence, error) {
	return nil, apperr.ErrNotFound
}

func (f *fakeSentenceRepo) GetSentences(_ context.Context, _ *gorm.DB, _ []uuid.UUID, _ string, _ types.SentenceStatus) ([]*types.ClassifiedSentence, error) {
	return nil, f.err
}

func (f *fakeSentenceRepo) Search(_ context.Context, _ *gorm.DB, query *types.SentencesQuery) (*types.SentencesQueryResult, error) {
	f.lastQuery = query
	return &types.SentencesQueryResult{Sentences: []*types.ClassifiedSentence{}}, f.err
}

func (f *fakeSentenceRepo) CountByStatus(_ context.Context, _ *gorm.DB, _ uuid.UUID) ([]*types.SentenceStatusCount, error) {
	return nil, f.err
}

func (f *fakeSentenceRepo) SwitchSentencesStatus(_ context.Context, _ *gorm.DB, sentences []*types.ClassifiedSentence, status types.SentenceStatus) error {
	f.switchCalls++
	f.lastStatus = status
	f.lastSaved = sentences
	return f.err
}

func (f *fakeSentenceRepo) SwitchSentencesIntent(_ context.Context, _ *gorm.DB, sentences []*types.ClassifiedSentence, _ uuid.UUID) error {
	f.switchCalls++
	f.lastSaved = sentences
	return f.err
}

func (f *fakeSentenceRepo) SwitchIntentForApplication(_ context.Context, _ *gorm.DB, _, _, _ uuid.UUID) (int64, error) {
	f.switchCalls++
	return f.switchN, f.err
}

func (f *fakeSentenceRepo) SwitchSentencesEntity(_ context.Context, _ *gorm.DB, sentences []*types.ClassifiedSentence, _, _ types.EntityDefinition) error {
	f.switchCalls++
	f.lastSaved = sentences
	return f.err
}

func (f *fakeSentenceRepo) RemoveEntityFromSentences(_ context.Context, _ *gorm.DB, _, _ uuid.UUID, _ types.EntityDefinition) (int64, error) {
	f.switchCalls++
	return f.switchN, f.err
}

func (f *fakeSentenceRepo) RemoveSubEntityFromSentences(_ context.Context, _ *gorm.DB, _ uuid.UUID, _, _ string) (int64, error) {
	f.switchCalls++
	return f.switchN, f.err
}

func (f *fakeSentenceRepo) DeleteSentencesByStatus(_ context.Context, _ *gorm.DB, status types.SentenceStatus) (int64, error) {
	f.lastStatus = status
	return f.deleteN, f.err
}

func (f *fakeSentenceRepo) DeleteSentencesByApplicationID(_ context.Context, _ *gorm.DB, _ uuid.UUID) (int64, error) {
	return f.deleteN, f.err
}

type fakeBus struct {
	events []bus.SentenceEvent
}

func (f *fakeBus) Publish(_ context.Context, ev bus.SentenceEvent) error {
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeBus) StartForwarder(context.Context, func(bus.SentenceEvent)) error { return nil }
func (f *fakeBus) Close() error                                                 { return nil }

func newTestSentenceService(t *testing.T, repo *fakeSentenceRepo, b *fakeBus) SentenceService {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return NewSentenceService(nil, log, repo, b)
}

func TestSentenceServiceSaveCanonicalizesLanguage(t *testing.T) {
	repo := &fakeSentenceRepo{}
	b := &fakeBus{}
	svc := newTestSentenceService(t, repo, b)

	appID := uuid.New()
	sentences := []*types.ClassifiedSentence{
		{Text: "book a flight", Language: "EN_us", ApplicationID: appID},
		{Text: "réserver un vol", Language: "FR", ApplicationID: appID},
	}
	if err := svc.Save(context.Background(), sentences); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if repo.saveCalls != 1 {
		t.Fatalf("save call count: want=1 got=%d", repo.saveCalls)
	}
	if got := repo.lastSaved[0].Language; got != "en-US" {
		t.Fatalf("language canonicalization: want=%q got=%q", "en-US", got)
	}
	if got := repo.lastSaved[1].Language; got != "fr" {
		t.Fatalf("language canonicalization: want=%q got=%q", "fr", got)
	}
	if len(b.events) != 1 {
		t.Fatalf("event count: want=1 got=%d", len(b.events))
	}
	ev := b.events[0]
	if ev.Type != bus.EventSentencesSaved {
		t.Fatalf("event type: want=%q got=%q", bus.EventSentencesSaved, ev.Type)
	}
	if ev.ApplicationID != appID {
		t.Fatalf("event application: want=%s got=%s", appID, ev.ApplicationID)
	}
	if ev.Count != 2 {
		t.Fatalf("event count field: want=2 got=%d", ev.Count)
	}
}

func TestSentenceServiceSaveRejectsBadInput(t *testing.T) {
	cases := []struct {
		name     string
		sentence *types.ClassifiedSentence
	}{
		{name: "empty_text", sentence: &types.ClassifiedSentence{Text: "   ", ApplicationID: uuid.New()}},
		{name: "missing_application", sentence: &types.ClassifiedSentence{Text: "hello"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeSentenceRepo{}
			svc := newTestSentenceService(t, repo, &fakeBus{})
			err := svc.Save(context.Background(), []*types.ClassifiedSentence{tc.sentence})
			if !errors.Is(err, apperr.ErrInvalidQuery) {
				t.Fatalf("want ErrInvalidQuery, got %v", err)
			}
			if repo.saveCalls != 0 {
				t.Fatalf("repo must not be called on invalid input")
			}
		})
	}
}

func TestSentenceServiceSaveEmptySliceIsNoop(t *testing.T) {
	repo := &fakeSentenceRepo{}
	b := &fakeBus{}
	svc := newTestSentenceService(t, repo, b)
	if err := svc.Save(context.Background(), nil); err != nil {
		t.Fatalf("Save(nil): %v", err)
	}
	if repo.saveCalls != 0 || len(b.events) != 0 {
		t.Fatalf("empty save must not hit repo or bus")
	}
}

func TestSentenceServiceSearchCanonicalizesWithoutMutatingCaller(t *testing.T) {
	repo := &fakeSentenceRepo{}
	svc := newTestSentenceService(t, repo, &fakeBus{})

	query := &types.SentencesQuery{ApplicationID: uuid.New(), Language: "EN_us", Size: 10}
	if _, err := svc.Search(context.Background(), query); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if repo.lastQuery == nil || repo.lastQuery.Language != "en-US" {
		t.Fatalf("repo query language: want=%q got=%+v", "en-US", repo.lastQuery)
	}
	if query.Language != "EN_us" {
		t.Fatalf("caller query mutated: %q", query.Language)
	}
}

func TestSentenceServiceSearchRejectsNilQuery(t *testing.T) {
	svc := newTestSentenceService(t, &fakeSentenceRepo{}, &fakeBus{})
	if _, err := svc.Search(context.Background(), nil); !errors.Is(err, apperr.ErrInvalidQuery) {
		t.Fatalf("want ErrInvalidQuery, got %v", err)
	}
}

func TestSentenceServiceSearchExcludesDeletedByDefault(t *testing.T) {
	repo := &fakeSentenceRepo{}
	svc := newTestSentenceService(t, repo, &fakeBus{})

	if _, err := svc.Search(context.Background(), &types.SentencesQuery{ApplicationID: uuid.New(), Size: 10}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if repo.lastQuery.NotStatus != types.StatusDeleted {
		t.Fatalf("default exclusion: want=%q got=%q", types.StatusDeleted, repo.lastQuery.NotStatus)
	}

	t.Run("explicit_status_wins", func(t *testing.T) {
		if _, err := svc.Search(context.Background(), &types.SentencesQuery{
			ApplicationID: uuid.New(),
			Status:        []types.SentenceStatus{types.StatusDeleted},
			Size:          10,
		}); err != nil {
			t.Fatalf("Search: %v", err)
		}
		if repo.lastQuery.NotStatus != "" {
			t.Fatalf("explicit status filter must not gain an exclusion, got %q", repo.lastQuery.NotStatus)
		}
	})
}

func TestSentenceServiceSearchCapsPageSize(t *testing.T) {
	repo := &fakeSentenceRepo{}
	svc := newTestSentenceService(t, repo, &fakeBus{})
	_, err := svc.Search(context.Background(), &types.SentencesQuery{ApplicationID: uuid.New(), Size: maxSearchPageSize + 1})
	if !errors.Is(err, apperr.ErrInvalidQuery) {
		t.Fatalf("want ErrInvalidQuery, got %v", err)
	}
	if repo.lastQuery != nil {
		t.Fatalf("repo must not be called for an oversized page")
	}
}

func TestSentenceServiceSwitchStatusRejectsUnknownStatus(t *testing.T) {
	repo := &fakeSentenceRepo{}
	svc := newTestSentenceService(t, repo, &fakeBus{})
	err := svc.SwitchStatus(context.Background(), []*types.ClassifiedSentence{{ID: uuid.New()}}, "archived")
	if !errors.Is(err, apperr.ErrInvalidQuery) {
		t.Fatalf("want ErrInvalidQuery, got %v", err)
	}
	if repo.switchCalls != 0 {
		t.Fatalf("repo must not be called for unknown status")
	}
}

func TestSentenceServiceSwitchStatusPublishesPerApplication(t *testing.T) {
	repo := &fakeSentenceRepo{}
	b := &fakeBus{}
	svc := newTestSentenceService(t, repo, b)

	appA := uuid.New()
	appB := uuid.New()
	sentences := []*types.ClassifiedSentence{
		{ID: uuid.New(), ApplicationID: appA},
		{ID: uuid.New(), ApplicationID: appA},
		{ID: uuid.New(), ApplicationID: appB},
	}
	if err := svc.SwitchStatus(context.Background(), sentences, types.StatusValidated); err != nil {
		t.Fatalf("SwitchStatus: %v", err)
	}
	if repo.lastStatus != types.StatusValidated {
		t.Fatalf("status passed to repo: want=%q got=%q", types.StatusValidated, repo.lastStatus)
	}
	for i, sentence := range repo.lastSaved {
		if sentence.UpdatedAt.IsZero() {
			t.Fatalf("sentence %d not stamped before the rewrite", i)
		}
	}
	if len(b.events) != 2 {
		t.Fatalf("event count: want=2 got=%d", len(b.events))
	}
	counts := map[uuid.UUID]int64{}
	for _, ev := range b.events {
		if ev.Type != bus.EventStatusSwitched {
			t.Fatalf("event type: want=%q got=%q", bus.EventStatusSwitched, ev.Type)
		}
		counts[ev.ApplicationID] = ev.Count
	}
	if counts[appA] != 2 || counts[appB] != 1 {
		t.Fatalf("per-application counts: got %v", counts)
	}
}

func TestSentenceServiceDeleteByStatusPublishesOnlyWhenRowsChanged(t *testing.T) {
	repo := &fakeSentenceRepo{deleteN: 3}
	b := &fakeBus{}
	svc := newTestSentenceService(t, repo, b)
	n, err := svc.DeleteByStatus(context.Background(), types.StatusDeleted)
	if err != nil {
		t.Fatalf("DeleteByStatus: %v", err)
	}
	if n != 3 {
		t.Fatalf("deleted count: want=3 got=%d", n)
	}
	if repo.lastStatus != types.StatusDeleted {
		t.Fatalf("status passed to repo: want=%q got=%q", types.StatusDeleted, repo.lastStatus)
	}
	if len(b.events) != 1 || b.events[0].Type != bus.EventSentencesDeleted || b.events[0].Count != 3 {
		t.Fatalf("delete event: got %+v", b.events)
	}
	if b.events[0].ApplicationID != uuid.Nil {
		t.Fatalf("cross-application sweep must carry a zero application id, got %s", b.events[0].ApplicationID)
	}

	repo = &fakeSentenceRepo{deleteN: 0}
	b = &fakeBus{}
	svc = newTestSentenceService(t, repo, b)
	if _, err := svc.DeleteByStatus(context.Background(), types.StatusDeleted); err != nil {
		t.Fatalf("DeleteByStatus: %v", err)
	}
	if len(b.events) != 0 {
		t.Fatalf("no event expected when nothing deleted, got %+v", b.events)
	}
}

func TestSentenceServiceDeleteByStatusRejectsUnknownStatus(t *testing.T) {
	repo := &fakeSentenceRepo{deleteN: 3}
	svc := newTestSentenceService(t, repo, &fakeBus{})
	if _, err := svc.DeleteByStatus(context.Background(), "archived"); !errors.Is(err, apperr.ErrInvalidQuery) {
		t.Fatalf("want ErrInvalidQuery, got %v", err)
	}
	if repo.lastStatus != "" {
		t.Fatalf("repo must not be called for unknown status")
	}
}

func TestSentenceServiceDeleteByApplicationRequiresID(t *testing.T) {
	svc := newTestSentenceService(t, &fakeSentenceRepo{}, &fakeBus{})
	if _, err := svc.DeleteByApplication(context.Background(), uuid.Nil); !errors.Is(err, apperr.ErrInvalidQuery) {
		t.Fatalf("want ErrInvalidQuery, got %v", err)
	}
}

func TestSentenceServiceRemoveEntityValidates(t *testing.T) {
	repo := &fakeSentenceRepo{switchN: 2}
	b := &fakeBus{}
	svc := newTestSentenceService(t, repo, b)

	if _, err := svc.RemoveEntity(context.Background(), uuid.Nil, uuid.New(), types.EntityDefinition{Type: "location"}); !errors.Is(err, apperr.ErrInvalidQuery) {
		t.Fatalf("want ErrInvalidQuery for nil application, got %v", err)
	}
	if _, err := svc.RemoveEntity(context.Background(), uuid.New(), uuid.New(), types.EntityDefinition{}); !errors.Is(err, apperr.ErrInvalidQuery) {
		t.Fatalf("want ErrInvalidQuery for empty entity type, got %v", err)
	}

	n, err := svc.RemoveEntity(context.Background(), uuid.New(), uuid.New(), types.EntityDefinition{Type: "location", Role: "origin"})
	if err != nil {
		t.Fatalf("RemoveEntity: %v", err)
	}
	if n != 2 {
		t.Fatalf("changed count: want=2 got=%d", n)
	}
	if len(b.events) != 1 || b.events[0].Type != bus.EventEntityRemoved {
		t.Fatalf("entity removed event: got %+v", b.events)
	}
}

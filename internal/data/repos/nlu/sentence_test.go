package nlu

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/botbridge-backend/internal/data/repos/testutil"
	types "github.com/yungbote/botbridge-backend/internal/domain"
	"github.com/yungbote/botbridge-backend/internal/platform/apperr"
)

func TestSentenceRepoSaveUpsert(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewSentenceRepo(db, testutil.Logger(t))

	appID := uuid.New()
	intentA := uuid.New()
	intentB := uuid.New()

	first := &types.ClassifiedSentence{
		Text:          "Book a Flight to Paris",
		Language:      "en",
		ApplicationID: appID,
		Status:        types.StatusInbox,
		IntentID:      intentA,
		Entities: []types.ClassifiedEntity{
			{Type: "location", Role: "destination", Start: 18, End: 23},
		},
	}
	if err := repo.Save(ctx, tx, []*types.ClassifiedSentence{first}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if first.NormalizedText != "book a flight to paris" {
		t.Fatalf("normalized text not recomputed: %q", first.NormalizedText)
	}
	if first.ID == uuid.Nil {
		t.Fatalf("expected id backfill after save")
	}

	// same triple spelled differently: must replace, not duplicate
	second := &types.ClassifiedSentence{
		Text:          "  book a flight to PARIS ",
		Language:      "en",
		ApplicationID: appID,
		Status:        types.StatusValidated,
		IntentID:      intentB,
		LastIntentProbability: testutil.PtrFloat(0.93),
	}
	if err := repo.Save(ctx, tx, []*types.ClassifiedSentence{second}); err != nil {
		t.Fatalf("Save(again): %v", err)
	}

	var count int64
	if err := tx.WithContext(ctx).Model(&types.ClassifiedSentence{}).
		Where("application_id = ?", appID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row after re-save, got %d", count)
	}

	got, err := repo.GetByText(ctx, tx, "book a flight to paris", "en", appID)
	if err != nil {
		t.Fatalf("GetByText: %v", err)
	}
	if got.ID != first.ID {
		t.Fatalf("re-save changed row identity: %s -> %s", first.ID, got.ID)
	}
	if got.Status != types.StatusValidated || got.IntentID != intentB {
		t.Fatalf("re-save did not replace classification: %+v", got)
	}
	if got.LastIntentProbability == nil || *got.LastIntentProbability != 0.93 {
		t.Fatalf("expected intent probability 0.93, got %+v", got.LastIntentProbability)
	}
	if d := got.CreatedAt.Sub(first.CreatedAt); d < -time.Millisecond || d > time.Millisecond {
		t.Fatalf("re-save changed created_at: %v -> %v", first.CreatedAt, got.CreatedAt)
	}
}

func TestSentenceRepoSaveKeepsCallerTimestamps(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewSentenceRepo(db, testutil.Logger(t))

	appID := uuid.New()
	past := time.Now().UTC().Add(-48 * time.Hour).Truncate(time.Microsecond)
	s := &types.ClassifiedSentence{
		Text:          "turn off the lights",
		Language:      "en",
		ApplicationID: appID,
		Status:        types.StatusModel,
		IntentID:      uuid.New(),
		CreatedAt:     past,
		UpdatedAt:     past,
	}
	if err := repo.Save(ctx, tx, []*types.ClassifiedSentence{s}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByText(ctx, tx, "turn off the lights", "en", appID)
	if err != nil {
		t.Fatalf("GetByText: %v", err)
	}
	if !got.UpdatedAt.Equal(past) {
		t.Fatalf("expected caller-owned updated_at %v, got %v", past, got.UpdatedAt)
	}
	if !got.CreatedAt.Equal(past) {
		t.Fatalf("expected caller-owned created_at %v, got %v", past, got.CreatedAt)
	}
}

func TestSentenceRepoGetByText(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewSentenceRepo(db, testutil.Logger(t))

	appID := uuid.New()
	otherApp := uuid.New()
	testutil.SeedSentence(t, ctx, tx, &types.ClassifiedSentence{
		Text:          "what is the weather",
		Language:      "en",
		ApplicationID: appID,
		IntentID:      uuid.New(),
	})

	got, err := repo.GetByText(ctx, tx, "  What IS the Weather  ", "en", appID)
	if err != nil {
		t.Fatalf("GetByText: %v", err)
	}
	if got.Text != "what is the weather" {
		t.Fatalf("unexpected row: %+v", got)
	}

	if _, err := repo.GetByText(ctx, tx, "what is the weather", "fr", appID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("GetByText(other language): expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByText(ctx, tx, "what is the weather", "en", otherApp); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("GetByText(other application): expected ErrNotFound, got %v", err)
	}
}

func TestSentenceRepoGetSentences(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewSentenceRepo(db, testutil.Logger(t))

	appID := uuid.New()
	greet := uuid.New()
	order := uuid.New()

	testutil.SeedSentence(t, ctx, tx, &types.ClassifiedSentence{
		Text: "hello there", Language: "en", ApplicationID: appID,
		IntentID: greet, Status: types.StatusValidated,
	})
	testutil.SeedSentence(t, ctx, tx, &types.ClassifiedSentence{
		Text: "bonjour", Language: "fr", ApplicationID: appID,
		IntentID: greet, Status: types.StatusModel,
	})
	testutil.SeedSentence(t, ctx, tx, &types.ClassifiedSentence{
		Text: "a table for two", Language: "en", ApplicationID: appID,
		IntentID: order, Status: types.StatusValidated,
	})

	tests := []struct {
		name     string
		intents  []uuid.UUID
		language string
		status   types.SentenceStatus
		want     int
		wantErr  bool
	}{
		{name: "by intent", intents: []uuid.UUID{greet}, want: 2},
		{name: "by intent and language", intents: []uuid.UUID{greet}, language: "en", want: 1},
		{name: "by language", language: "en", want: 2},
		{name: "by status", status: types.StatusValidated, want: 2},
		{name: "by both intents", intents: []uuid.UUID{greet, order}, want: 3},
		{name: "intent with no sentences", intents: []uuid.UUID{uuid.New()}, want: 0},
		{name: "no filters", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetSentences(ctx, tx, tt.intents, tt.language, tt.status)
			if tt.wantErr {
				if !errors.Is(err, apperr.ErrInvalidQuery) {
					t.Fatalf("expected ErrInvalidQuery, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetSentences: %v", err)
			}
			// count only this test's application so broad filters stay
			// independent of whatever else lives in the test database
			n := 0
			for _, s := range got {
				if s.ApplicationID == appID {
					n++
				}
			}
			if n != tt.want {
				t.Fatalf("expected %d sentences, got %d", tt.want, n)
			}
		})
	}
}

func TestSentenceRepoGetSentencesRequiresFilter(t *testing.T) {
	// the filter check runs before any database work, so a nil handle is fine
	repo := NewSentenceRepo(nil, testutil.Logger(t))
	if _, err := repo.GetSentences(context.Background(), nil, nil, "", ""); !errors.Is(err, apperr.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestSentenceRepoSwitchSentencesStatus(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewSentenceRepo(db, testutil.Logger(t))

	appID := uuid.New()
	past := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)
	a := testutil.SeedSentence(t, ctx, tx, &types.ClassifiedSentence{
		Text: "first", ApplicationID: appID, IntentID: uuid.New(), UpdatedAt: past,
	})
	b := testutil.SeedSentence(t, ctx, tx, &types.ClassifiedSentence{
		Text: "second", ApplicationID: appID, IntentID: uuid.New(), UpdatedAt: past,
	})
	untouched := testutil.SeedSentence(t, ctx, tx, &types.ClassifiedSentence{
		Text: "third", ApplicationID: appID, IntentID: uuid.New(), UpdatedAt: past,
	})

	if err := repo.SwitchSentencesStatus(ctx, tx, []*types.ClassifiedSentence{a, b}, types.StatusValidated); err != nil {
		t.Fatalf("SwitchSentencesStatus: %v", err)
	}

	for _, id := range []uuid.UUID{a.ID, b.ID} {
		var row types.ClassifiedSentence
		if err := tx.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
			t.Fatalf("reload %s: %v", id, err)
		}
		if row.Status != types.StatusValidated {
			t.Fatalf("expected validated, got %s", row.Status)
		}
		// the rewrite re-saves the sentence as carried, timestamps included
		if !row.UpdatedAt.Equal(past) {
			t.Fatalf("expected carried updated_at %v, got %v", past, row.UpdatedAt)
		}
	}

	var row types.ClassifiedSentence
	if err := tx.WithContext(ctx).Where("id = ?", untouched.ID).First(&row).Error; err != nil {
		t.Fatalf("reload untouched: %v", err)
	}
	if row.Status != types.StatusInbox {
		t.Fatalf("unlisted sentence was touched: %+v", row)
	}

	if err := repo.SwitchSentencesStatus(ctx, tx, nil, types.StatusModel); err != nil {
		t.Fatalf("SwitchSentencesStatus(empty): %v", err)
	}
}

func TestSentenceRepoDeleteSentencesByStatus(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewSentenceRepo(db, testutil.Logger(t))

	appID := uuid.New()
	otherApp := uuid.New()
	testutil.SeedSentence(t, ctx, tx, &types.ClassifiedSentence{
		Text: "one", ApplicationID: appID, IntentID: uuid.New(), Status: types.StatusDeleted,
	})
	testutil.SeedSentence(t, ctx, tx, &types.ClassifiedSentence{
		Text: "two", ApplicationID: appID, IntentID: uuid.New(), Status: types.StatusDeleted,
	})
	keep := testutil.SeedSentence(t, ctx, tx, &types.ClassifiedSentence{
		Text: "three", ApplicationID: appID, IntentID: uuid.New(), Status: types.StatusInbox,
	})
	testutil.SeedSentence(t, ctx, tx, &types.ClassifiedSentence{
		Text: "four", ApplicationID: otherApp, IntentID: uuid.New(), Status: types.StatusDeleted,
	})

	// the purge sweeps the status across every application; the count floor
	// keeps the test independent of committed leftovers in the database
	n, err := repo.DeleteSentencesByStatus(ctx, tx, types.StatusDeleted)
	if err != nil {
		t.Fatalf("DeleteSentencesByStatus: %v", err)
	}
	if n < 3 {
		t.Fatalf("expected at least 3 deleted, got %d", n)
	}

	var remaining []types.ClassifiedSentence
	if err := tx.WithContext(ctx).Where("application_id = ?", appID).Find(&remaining).Error; err != nil {
		t.Fatalf("list remaining: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != keep.ID {
		t.Fatalf("unexpected survivors: %+v", remaining)
	}

	var otherCount int64
	if err := tx.WithContext(ctx).Model(&types.ClassifiedSentence{}).
		Where("application_id = ?", otherApp).Count(&otherCount).Error; err != nil {
		t.Fatalf("count other app: %v", err)
	}
	if otherCount != 0 {
		t.Fatalf("expected the other application's deleted sentence to be purged too")
	}
}

func TestSentenceRepoDeleteSentencesByApplicationID(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewSentenceRepo(db, testutil.Logger(t))

	appID := uuid.New()
	otherApp := uuid.New()
	for _, text := range []string{"red", "green", "blue"} {
		testutil.SeedSentence(t, ctx, tx, &types.ClassifiedSentence{
			Text: text, ApplicationID: appID, IntentID: uuid.New(),
		})
	}
	testutil.SeedSentence(t, ctx, tx, &types.ClassifiedSentence{
		Text: "yellow", ApplicationID: otherApp, IntentID: uuid.New(),
	})

	n, err := repo.DeleteSentencesByApplicationID(ctx, tx, appID)
	if err != nil {
		t.Fatalf("DeleteSentencesByApplicationID: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 deleted, got %d", n)
	}

	n, err = repo.DeleteSentencesByApplicationID(ctx, tx, uuid.Nil)
	if err != nil || n != 0 {
		t.Fatalf("DeleteSentencesByApplicationID(nil app): n=%d err=%v", n, err)
	}

	var otherCount int64
	if err := tx.WithContext(ctx).Model(&types.ClassifiedSentence{}).
		Where("application_id = ?", otherApp).Count(&otherCount).Error; err != nil {
		t.Fatalf("count other app: %v", err)
	}
	if otherCount != 1 {
		t.Fatalf("delete crossed application boundary")
	}
}

func TestSentenceRepoCountByStatus(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewSentenceRepo(db, testutil.Logger(t))

	appID := uuid.New()
	for _, s := range []types.SentenceStatus{
		types.StatusInbox, types.StatusInbox, types.StatusValidated, types.StatusModel, types.StatusModel, types.StatusModel,
	} {
		testutil.SeedSentence(t, ctx, tx, &types.ClassifiedSentence{
			Text: uuid.NewString(), ApplicationID: appID, IntentID: uuid.New(), Status: s,
		})
	}

	counts, err := repo.CountByStatus(ctx, tx, appID)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	byStatus := map[types.SentenceStatus]int64{}
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}
	if byStatus[types.StatusInbox] != 2 || byStatus[types.StatusValidated] != 1 || byStatus[types.StatusModel] != 3 {
		t.Fatalf("unexpected breakdown: %+v", byStatus)
	}
}

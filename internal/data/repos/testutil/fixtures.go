package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/botbridge-backend/internal/domain"
	"github.com/yungbote/botbridge-backend/internal/normalization"
)

// SeedSentence inserts the sentence directly, bypassing the repo, filling in
// whatever the test left zero. Tests set UpdatedAt explicitly when they need
// a controlled timeline.
func SeedSentence(tb testing.TB, ctx context.Context, tx *gorm.DB, s *types.ClassifiedSentence) *types.ClassifiedSentence {
	tb.Helper()
	if s.Text == "" {
		s.Text = "book a flight"
	}
	s.NormalizedText = normalization.TextKey(s.Text)
	if s.Language == "" {
		s.Language = "en"
	}
	if s.Status == "" {
		s.Status = types.StatusInbox
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed sentence: %v", err)
	}
	return s
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }

func PtrFloat(v float64) *float64 { return &v }

package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/botbridge-backend/internal/domain"
	"github.com/yungbote/botbridge-backend/internal/platform/apperr"
)

// Search runs a filtered, paginated sentence query. Results are ordered
// newest-first by updated_at; a query carrying a search mark only sees rows
// updated at or before the mark, which keeps pages stable while bulk rewrites
// run underneath the pagination.
//
// When the matching count is not greater than the requested start, the result
// reports a zero total and an empty page, so a paging loop can stop on either
// signal.
func (r *sentenceRepo) Search(ctx context.Context, tx *gorm.DB, query *types.SentencesQuery) (*types.SentencesQueryResult, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if err := validateQuery(query); err != nil {
		return nil, err
	}

	var total int64
	if err := r.searchScope(t.WithContext(ctx), query).Count(&total).Error; err != nil {
		return nil, apperr.Store("count sentence search", err)
	}

	result := &types.SentencesQueryResult{Sentences: []*types.ClassifiedSentence{}}
	if total <= int64(query.Start) {
		return result, nil
	}
	result.Total = total

	if query.Size == 0 {
		return result, nil
	}
	err := r.searchScope(t.WithContext(ctx), query).
		Order("updated_at DESC").
		Offset(query.Start).
		Limit(query.Size).
		Find(&result.Sentences).Error
	if err != nil {
		return nil, apperr.Store("search sentences", err)
	}
	return result, nil
}

func validateQuery(query *types.SentencesQuery) error {
	if query == nil {
		return fmt.Errorf("%w: nil query", apperr.ErrInvalidQuery)
	}
	if query.ApplicationID == uuid.Nil {
		return fmt.Errorf("%w: missing application id", apperr.ErrInvalidQuery)
	}
	if query.Start < 0 || query.Size < 0 {
		return fmt.Errorf("%w: negative page bounds", apperr.ErrInvalidQuery)
	}
	return nil
}

// searchScope rebuilds the filter chain from scratch on every call so the
// count and the page query never share statement state.
func (r *sentenceRepo) searchScope(t *gorm.DB, query *types.SentencesQuery) *gorm.DB {
	s := t.Model(&types.ClassifiedSentence{}).
		Where("application_id = ?", query.ApplicationID)

	if query.Language != "" {
		s = s.Where("language = ?", query.Language)
	}

	if query.Search != "" {
		if query.OnlyExactMatch {
			s = s.Where("text = ?", query.Search)
		} else {
			s = s.Where("text ILIKE ?", "%"+escapeLike(query.Search)+"%")
		}
	}

	if query.IntentID != nil {
		s = s.Where("intent_id = ?", *query.IntentID)
	}

	switch {
	case len(query.Status) > 0:
		s = s.Where("status IN ?", query.Status)
	case query.NotStatus != "":
		s = s.Where("status <> ?", query.NotStatus)
	}

	if query.EntityType != "" || query.EntityRole != "" {
		s = s.Where("entities @> ?::jsonb", entityProbe(query.EntityType, query.EntityRole))
	}

	if query.SearchMark != nil {
		s = s.Where("updated_at <= ?", query.SearchMark.Date)
	}
	if query.ModifiedAfter != nil {
		s = s.Where("updated_at > ?", *query.ModifiedAfter)
	}

	return s
}

// entityProbe builds a jsonb containment probe matching top-level annotations
// only: nested sub_entities never satisfy containment on the outer array.
func entityProbe(entityType, entityRole string) string {
	probe := map[string]string{}
	if entityType != "" {
		probe["type"] = entityType
	}
	if entityRole != "" {
		probe["role"] = entityRole
	}
	b, _ := json.Marshal([]map[string]string{probe})
	return string(b)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

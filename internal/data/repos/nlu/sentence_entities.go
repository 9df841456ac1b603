package nlu

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/botbridge-backend/internal/domain"
	"github.com/yungbote/botbridge-backend/internal/platform/apperr"
)

// SwitchSentencesIntent re-saves each given sentence reclassified under
// intentID. Moving a sentence to the unknown intent also drops its
// annotations, since they were drawn from the previous intent's entity set;
// any other target keeps them. Status and timestamps ride along as carried.
// Not transactional across the batch.
func (r *sentenceRepo) SwitchSentencesIntent(ctx context.Context, tx *gorm.DB, sentences []*types.ClassifiedSentence, intentID uuid.UUID) error {
	for _, s := range sentences {
		if s == nil {
			continue
		}
		s.IntentID = intentID
		if intentID == types.UnknownIntentID {
			s.Entities = nil
		}
		if err := r.Save(ctx, tx, []*types.ClassifiedSentence{s}); err != nil {
			return err
		}
	}
	return nil
}

// SwitchIntentForApplication moves every sentence of the application
// classified under fromIntentID to toIntentID in one statement and reports
// how many rows moved. Used when an intent is removed or merged away: the
// moved sentences lose their annotations and return to the inbox, because a
// classification drawn from the old intent's entity set has to be revalidated
// under the new one.
func (r *sentenceRepo) SwitchIntentForApplication(ctx context.Context, tx *gorm.DB, applicationID, fromIntentID, toIntentID uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if applicationID == uuid.Nil {
		return 0, nil
	}
	res := t.WithContext(ctx).
		Model(&types.ClassifiedSentence{}).
		Where("application_id = ? AND intent_id = ?", applicationID, fromIntentID).
		Updates(map[string]interface{}{
			"intent_id":  toIntentID,
			"entities":   gorm.Expr(`'[]'::jsonb`),
			"status":     types.StatusInbox,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, apperr.Store("switch intent for application", res.Error)
	}
	return res.RowsAffected, nil
}

// SwitchSentencesEntity re-saves each given sentence with annotations
// matching from renamed to to's definition. Surviving annotations keep their
// relative order and the renamed ones follow them; offsets and nested
// sub-annotations ride along verbatim, so the per-sentence annotation count
// never changes. Not transactional across the batch.
func (r *sentenceRepo) SwitchSentencesEntity(ctx context.Context, tx *gorm.DB, sentences []*types.ClassifiedSentence, from, to types.EntityDefinition) error {
	for _, s := range sentences {
		if s == nil {
			continue
		}
		s.SwitchEntity(from, to)
		if err := r.Save(ctx, tx, []*types.ClassifiedSentence{s}); err != nil {
			return err
		}
	}
	return nil
}

// RemoveEntityFromSentences strips every top-level annotation matching the
// definition from sentences of the application classified under intentID.
// The rewrite keeps annotation order and only touches rows that actually
// carry the entity, so RowsAffected is the number of changed sentences.
func (r *sentenceRepo) RemoveEntityFromSentences(ctx context.Context, tx *gorm.DB, applicationID, intentID uuid.UUID, entity types.EntityDefinition) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if applicationID == uuid.Nil {
		return 0, nil
	}
	probe, _ := json.Marshal([]types.EntityDefinition{entity})
	res := t.WithContext(ctx).Exec(`
		UPDATE classified_sentence
		SET entities = COALESCE((
				SELECT jsonb_agg(p.elem ORDER BY p.ord)
				FROM jsonb_array_elements(entities) WITH ORDINALITY AS p(elem, ord)
				WHERE NOT (p.elem->>'type' = ? AND p.elem->>'role' = ?)
			), '[]'::jsonb),
			updated_at = ?
		WHERE application_id = ?
		  AND intent_id = ?
		  AND entities @> ?::jsonb
	`, entity.Type, entity.Role, time.Now().UTC(), applicationID, intentID, string(probe))
	if res.Error != nil {
		return 0, apperr.Store("remove entity from sentences", res.Error)
	}
	return res.RowsAffected, nil
}

// RemoveSubEntityFromSentences prunes sub-annotations carrying role from
// inside every top-level annotation of parentType, descending exactly one
// nesting level: the sub-annotation's own type does not matter, and anything
// nested below the surviving sub-annotations stays as it is. A parent left
// with no sub-annotations loses its sub_entities key, matching how empty
// lists marshal on the way in.
func (r *sentenceRepo) RemoveSubEntityFromSentences(ctx context.Context, tx *gorm.DB, applicationID uuid.UUID, parentType, role string) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if applicationID == uuid.Nil {
		return 0, nil
	}
	probe, _ := json.Marshal([]map[string]interface{}{{
		"type":         parentType,
		"sub_entities": []map[string]string{{"role": role}},
	}})
	res := t.WithContext(ctx).Exec(`
		UPDATE classified_sentence
		SET entities = COALESCE((
				SELECT jsonb_agg(
					CASE
						WHEN p.elem->>'type' = ? AND jsonb_exists(p.elem, 'sub_entities') THEN
							CASE
								WHEN sub.filtered IS NULL OR sub.filtered = '[]'::jsonb
									THEN p.elem - 'sub_entities'
								ELSE jsonb_set(p.elem, '{sub_entities}', sub.filtered)
							END
						ELSE p.elem
					END
					ORDER BY p.ord)
				FROM jsonb_array_elements(entities) WITH ORDINALITY AS p(elem, ord)
				LEFT JOIN LATERAL (
					SELECT jsonb_agg(s.selem ORDER BY s.sord) AS filtered
					FROM jsonb_array_elements(p.elem->'sub_entities') WITH ORDINALITY AS s(selem, sord)
					WHERE s.selem->>'role' IS DISTINCT FROM ?
				) sub ON TRUE
			), '[]'::jsonb),
			updated_at = ?
		WHERE application_id = ?
		  AND entities @> ?::jsonb
	`, parentType, role, time.Now().UTC(), applicationID, string(probe))
	if res.Error != nil {
		return 0, apperr.Store("remove sub entity from sentences", res.Error)
	}
	return res.RowsAffected, nil
}

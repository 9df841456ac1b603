package bus

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventSentencesSaved   EventType = "sentences_saved"
	EventStatusSwitched   EventType = "status_switched"
	EventIntentSwitched   EventType = "intent_switched"
	EventEntitySwitched   EventType = "entity_switched"
	EventEntityRemoved    EventType = "entity_removed"
	EventSentencesDeleted EventType = "sentences_deleted"
)

// SentenceEvent tells listeners (model trainers, cache invalidators) that the
// stored sentences of an application changed. A zero ApplicationID marks a
// cross-application sweep, such as a status purge.
type SentenceEvent struct {
	Type          EventType `json:"type"`
	ApplicationID uuid.UUID `json:"application_id"`
	Language      string    `json:"language,omitempty"`
	Count         int64     `json:"count"`
	At            time.Time `json:"at"`
}

type Bus interface {
	Publish(ctx context.Context, event SentenceEvent) error
	StartForwarder(ctx context.Context, onEvent func(ev SentenceEvent)) error
	Close() error
}

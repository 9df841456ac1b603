package nlu

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SentenceStatus tracks a sentence through the validation workflow.
type SentenceStatus string

const (
	// StatusInbox is the initial status of every newly classified sentence.
	StatusInbox     SentenceStatus = "inbox"
	StatusValidated SentenceStatus = "validated"
	StatusModel     SentenceStatus = "model"
	// StatusDeleted marks sentences archived from the admin console; default
	// searches exclude it.
	StatusDeleted SentenceStatus = "deleted"
)

// UnknownIntentID is the reserved sentinel for the platform's unknown intent.
// Reclassifying a sentence to it clears the entity list.
var UnknownIntentID = uuid.Nil

// ClassifiedSentence is a training sentence with its current classification.
// Identity for writes is the (normalized_text, language, application_id)
// triple, never the row id: every save is an upsert on that triple.
type ClassifiedSentence struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Text           string    `gorm:"column:text;type:text;not null" json:"text"`
	NormalizedText string    `gorm:"column:normalized_text;type:text;not null" json:"normalized_text"`
	Language       string    `gorm:"column:language;not null" json:"language"`
	ApplicationID  uuid.UUID `gorm:"type:uuid;column:application_id;not null;index" json:"application_id"`

	Status   SentenceStatus                        `gorm:"column:status;not null" json:"status"`
	IntentID uuid.UUID                             `gorm:"type:uuid;column:intent_id;not null" json:"intent_id"`
	Entities datatypes.JSONSlice[ClassifiedEntity] `gorm:"column:entities" json:"entities"`

	LastIntentProbability *float64 `gorm:"column:last_intent_probability" json:"last_intent_probability,omitempty"`
	LastEntityProbability *float64 `gorm:"column:last_entity_probability" json:"last_entity_probability,omitempty"`

	// updated_at anchors search pagination (the search-mark upper bound), so
	// both timestamps are owned by the caller rather than GORM.
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updated_at"`
}

func (ClassifiedSentence) TableName() string { return "classified_sentence" }

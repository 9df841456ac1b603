package nlu

import (
	"time"

	"github.com/google/uuid"
)

// SearchMark anchors a paginated search to the moment its first page ran.
// Passing the previous page's mark back in excludes sentences updated after
// that moment, so concurrent rewrites cannot shift rows between pages.
type SearchMark struct {
	Date time.Time `json:"date"`
}

// SentencesQuery selects sentences for one application. Zero-valued fields do
// not filter. Status takes precedence over NotStatus; the sentence service
// fills NotStatus with the deleted status when neither is set.
type SentencesQuery struct {
	ApplicationID uuid.UUID `json:"application_id"`
	Language      string    `json:"language,omitempty"`

	// Search matches the sentence text, as a case-insensitive substring by
	// default or verbatim when OnlyExactMatch is set.
	Search         string `json:"search,omitempty"`
	OnlyExactMatch bool   `json:"only_exact_match,omitempty"`

	// IntentID filters on the classified intent. It is a pointer because the
	// zero uuid is itself meaningful: it selects unknown-intent sentences.
	IntentID *uuid.UUID `json:"intent_id,omitempty"`

	Status    []SentenceStatus `json:"status,omitempty"`
	NotStatus SentenceStatus   `json:"not_status,omitempty"`

	// EntityType and EntityRole match top-level entity annotations.
	EntityType string `json:"entity_type,omitempty"`
	EntityRole string `json:"entity_role,omitempty"`

	// ModifiedAfter keeps only sentences updated strictly after the instant,
	// e.g. to pull rows touched since the last model build.
	ModifiedAfter *time.Time `json:"modified_after,omitempty"`

	// SearchMark freezes pagination at the mark's instant; see SearchMark.
	SearchMark *SearchMark `json:"search_mark,omitempty"`

	Start int `json:"start"`
	Size  int `json:"size"`
}

// SentencesQueryResult is one page of a sentence search plus the total number
// of rows the filters matched.
type SentencesQueryResult struct {
	Total     int64                 `json:"total"`
	Sentences []*ClassifiedSentence `json:"sentences"`
}

// SentenceStatusCount is one bucket of a per-application status breakdown.
type SentenceStatusCount struct {
	Status SentenceStatus `json:"status"`
	Count  int64          `json:"count"`
}

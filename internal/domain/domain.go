package domain

import (
	"github.com/yungbote/botbridge-backend/internal/domain/nlu"
)

const (
	StatusInbox     = nlu.StatusInbox
	StatusValidated = nlu.StatusValidated
	StatusModel     = nlu.StatusModel
	StatusDeleted   = nlu.StatusDeleted
)

var UnknownIntentID = nlu.UnknownIntentID

type ClassifiedSentence = nlu.ClassifiedSentence
type ClassifiedEntity = nlu.ClassifiedEntity
type EntityDefinition = nlu.EntityDefinition
type SentenceStatus = nlu.SentenceStatus
type SentencesQuery = nlu.SentencesQuery
type SentencesQueryResult = nlu.SentencesQueryResult
type SentenceStatusCount = nlu.SentenceStatusCount
type SearchMark = nlu.SearchMark

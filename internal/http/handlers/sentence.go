package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/botbridge-backend/internal/domain"
	"github.com/yungbote/botbridge-backend/internal/http/response"
	"github.com/yungbote/botbridge-backend/internal/platform/apperr"
	"github.com/yungbote/botbridge-backend/internal/services"
)

// SentenceHandler exposes the sentence store to the admin console: saving
// batches, searching, bulk rewrites, and per-application maintenance.
type SentenceHandler struct {
	sentences services.SentenceService
}

func NewSentenceHandler(sentences services.SentenceService) *SentenceHandler {
	return &SentenceHandler{sentences: sentences}
}

type saveSentencesRequest struct {
	Sentences []*types.ClassifiedSentence `json:"sentences"`
}

func (h *SentenceHandler) Save(c *gin.Context) {
	// classification batches can be large
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 8<<20)
	var req saveSentencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	if err := h.sentences.Save(c.Request.Context(), req.Sentences); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"saved": len(req.Sentences)})
}

func (h *SentenceHandler) GetByText(c *gin.Context) {
	text := c.Query("text")
	if strings.TrimSpace(text) == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_text", nil)
		return
	}
	appID, err := uuid.Parse(strings.TrimSpace(c.Query("application_id")))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_application_id", err)
		return
	}
	sentence, err := h.sentences.GetByText(c.Request.Context(), text, c.Query("language"), appID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, sentence)
}

func (h *SentenceHandler) GetSentences(c *gin.Context) {
	var intentIDs []uuid.UUID
	for _, raw := range c.QueryArray("intent_id") {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_intent_id", err)
			return
		}
		intentIDs = append(intentIDs, id)
	}
	status := types.SentenceStatus(strings.TrimSpace(c.Query("status")))
	list, err := h.sentences.GetSentences(c.Request.Context(), intentIDs, c.Query("language"), status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sentences": list})
}

func (h *SentenceHandler) Search(c *gin.Context) {
	var query types.SentencesQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	result, err := h.sentences.Search(c.Request.Context(), &query)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, result)
}

func (h *SentenceHandler) CountByStatus(c *gin.Context) {
	appID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	counts, err := h.sentences.CountByStatus(c.Request.Context(), appID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"counts": counts})
}

type switchStatusRequest struct {
	Sentences []*types.ClassifiedSentence `json:"sentences"`
	Status    types.SentenceStatus        `json:"status"`
}

func (h *SentenceHandler) SwitchStatus(c *gin.Context) {
	var req switchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	if err := h.sentences.SwitchStatus(c.Request.Context(), req.Sentences, req.Status); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"switched": len(req.Sentences)})
}

type switchIntentRequest struct {
	Sentences []*types.ClassifiedSentence `json:"sentences"`
	IntentID  uuid.UUID                   `json:"intent_id"`
}

func (h *SentenceHandler) SwitchIntent(c *gin.Context) {
	var req switchIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	if err := h.sentences.SwitchIntent(c.Request.Context(), req.Sentences, req.IntentID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"switched": len(req.Sentences)})
}

type switchEntityRequest struct {
	Sentences []*types.ClassifiedSentence `json:"sentences"`
	From      types.EntityDefinition      `json:"from"`
	To        types.EntityDefinition      `json:"to"`
}

func (h *SentenceHandler) SwitchEntity(c *gin.Context) {
	var req switchEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	if err := h.sentences.SwitchEntity(c.Request.Context(), req.Sentences, req.From, req.To); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"switched": len(req.Sentences)})
}

type switchApplicationIntentRequest struct {
	FromIntentID uuid.UUID `json:"from_intent_id"`
	ToIntentID   uuid.UUID `json:"to_intent_id"`
}

func (h *SentenceHandler) SwitchIntentForApplication(c *gin.Context) {
	appID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req switchApplicationIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	n, err := h.sentences.SwitchIntentForApplication(c.Request.Context(), appID, req.FromIntentID, req.ToIntentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"switched": n})
}

type removeEntityRequest struct {
	IntentID uuid.UUID              `json:"intent_id"`
	Entity   types.EntityDefinition `json:"entity"`
}

func (h *SentenceHandler) RemoveEntity(c *gin.Context) {
	appID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req removeEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	n, err := h.sentences.RemoveEntity(c.Request.Context(), appID, req.IntentID, req.Entity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"changed": n})
}

type removeSubEntityRequest struct {
	ParentType string `json:"parent_type"`
	Role       string `json:"role"`
}

func (h *SentenceHandler) RemoveSubEntity(c *gin.Context) {
	appID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req removeSubEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	n, err := h.sentences.RemoveSubEntity(c.Request.Context(), appID, req.ParentType, req.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"changed": n})
}

// DeleteSentences drops the whole sentence corpus of one application.
func (h *SentenceHandler) DeleteSentences(c *gin.Context) {
	appID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	n, err := h.sentences.DeleteByApplication(c.Request.Context(), appID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": n})
}

// PurgeSentences removes every sentence in the given workflow status across
// all applications. The status query param is required.
func (h *SentenceHandler) PurgeSentences(c *gin.Context) {
	status := strings.TrimSpace(c.Query("status"))
	if status == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_status", nil)
		return
	}
	n, err := h.sentences.DeleteByStatus(c.Request.Context(), types.SentenceStatus(status))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": n})
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrInvalidQuery):
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
	case errors.Is(err, apperr.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case apperr.IsStore(err):
		response.RespondError(c, http.StatusServiceUnavailable, "store_unavailable", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}

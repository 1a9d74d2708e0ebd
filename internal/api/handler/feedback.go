package handler

import (
	"encoding/json"
	"net/http"

	"github.com/parenthaven/backend/internal/api/response"
	"github.com/parenthaven/backend/internal/chat"
	"github.com/parenthaven/backend/internal/domain"
)

// FeedbackHandler records relevance ratings for retrieved context
type FeedbackHandler struct {
	suppressor chat.Suppressor
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(suppressor chat.Suppressor) *FeedbackHandler {
	return &FeedbackHandler{suppressor: suppressor}
}

// Submit records one rating. Any integer is accepted and stored; only a
// rating of -1 suppresses the chunk in later retrievals for the session.
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req domain.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		if messages, ok := validationMessages(err); ok {
			response.BadRequest(w, messages)
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	if err := h.suppressor.Record(r.Context(), req.SessionID, req.MessageIndex, req.Rating); err != nil {
		response.InternalError(w, "failed to record feedback")
		return
	}

	response.OK(w, map[string]any{
		"recorded":      true,
		"session_id":    req.SessionID,
		"message_index": req.MessageIndex,
		"rating":        req.Rating,
	})
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/parenthaven/backend/internal/api/response"
	"github.com/parenthaven/backend/internal/chat"
	"github.com/parenthaven/backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// ChatHandler answers user questions
type ChatHandler struct {
	pipeline *chat.Pipeline
	sessions domain.SessionStore
}

// NewChatHandler creates a new chat handler
func NewChatHandler(pipeline *chat.Pipeline, sessions domain.SessionStore) *ChatHandler {
	return &ChatHandler{pipeline: pipeline, sessions: sessions}
}

// Ask handles one question. A missing session_id starts a new session whose
// ID is returned in the response.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, "query is required")
		return
	}

	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}
	h.sessions.GetOrCreate(req.SessionID)

	result, err := h.pipeline.Ask(r.Context(), req.SessionID, req.Query)
	if err != nil {
		var retrievalErr *chat.RetrievalError
		if errors.As(err, &retrievalErr) {
			log.Error().Err(err).Str("session_id", req.SessionID).Msg("Retrieval failed")
			response.InternalError(w, "knowledge base unavailable")
			return
		}
		response.InternalError(w, "failed to answer")
		return
	}

	response.OK(w, result)
}

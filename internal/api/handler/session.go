package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/parenthaven/backend/internal/api/response"
	"github.com/parenthaven/backend/internal/chat"
	"github.com/parenthaven/backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// historyFallbackLimit caps how many logged turns are recovered when the
// in-memory store has nothing for a session
const historyFallbackLimit = 50

// TurnLog is the persisted turn history, consulted when the in-memory store
// has no turns for a session (e.g. after a restart).
type TurnLog interface {
	ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.Turn, error)
}

// SessionHandler manages conversation sessions
type SessionHandler struct {
	sessions domain.SessionStore
	turnLog  TurnLog
}

// NewSessionHandler creates a new session handler. turnLog may be nil when no
// persisted log is configured.
func NewSessionHandler(sessions domain.SessionStore, turnLog TurnLog) *SessionHandler {
	return &SessionHandler{sessions: sessions, turnLog: turnLog}
}

// New creates a fresh session and returns its ID
func (h *SessionHandler) New(w http.ResponseWriter, r *http.Request) {
	sessionID := uuid.New().String()
	h.sessions.GetOrCreate(sessionID)

	response.Created(w, map[string]string{
		"session_id": sessionID,
	})
}

// Clear empties an existing session's history. Feedback recorded for the
// session is kept.
func (h *SessionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		response.BadRequest(w, "missing session_id")
		return
	}

	if err := h.sessions.Clear(sessionID); err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			response.NotFound(w, "session not found")
			return
		}
		response.InternalError(w, "failed to clear session")
		return
	}

	response.OK(w, map[string]string{
		"session_id": sessionID,
		"status":     "cleared",
	})
}

// History returns a session's turns, oldest first. When the in-memory store
// has nothing it falls back to the persisted turn log, so history survives
// restarts. Sessions the store knows (including cleared ones) never fall
// back.
func (h *SessionHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		response.BadRequest(w, "missing session ID")
		return
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}

	turns := h.sessions.Turns(sessionID)
	if len(turns) == 0 && h.turnLog != nil && !h.sessions.Known(sessionID) {
		logLimit := limit
		if logLimit <= 0 || logLimit > historyFallbackLimit {
			logLimit = historyFallbackLimit
		}
		logged, err := h.turnLog.ListBySession(r.Context(), sessionID, logLimit)
		if err != nil {
			log.Warn().Err(err).Str("session_id", sessionID).Msg("Turn log lookup failed")
		} else {
			turns = logged
		}
	}

	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}

	if turns == nil {
		turns = []domain.Turn{}
	}

	response.OK(w, map[string]any{
		"session_id": sessionID,
		"turns":      turns,
		"count":      len(turns),
	})
}

package domain

import "context"

// TurnRole represents the sender of a conversation turn
type TurnRole string

const (
	RoleUser      TurnRole = "user"
	RoleAssistant TurnRole = "assistant"
)

// Turn is a single utterance in a conversation. Immutable once appended;
// identified by its position in the session's turn sequence.
type Turn struct {
	Role    TurnRole `json:"role"`
	Content string   `json:"content"`
}

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query" validate:"required,max=4000"`
}

// ChatResult is what the answer pipeline returns to the transport layer.
// FromDB is false when the reply is a fallback rather than a grounded answer.
type ChatResult struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
	FromDB    bool   `json:"from_db"`
}

// FeedbackRequest is the body of POST /feedback. The rating applies to a
// position in the session's most recent retrieval ranking, not to a message.
type FeedbackRequest struct {
	SessionID    string `json:"session_id" validate:"required"`
	MessageIndex int    `json:"message_index" validate:"min=0"`
	Rating       int    `json:"rating"`
}

// SessionStore holds the ordered turn history for each session. Sessions are
// created on demand; clearing a session empties its turns but keeps the
// session known and leaves feedback for it untouched.
type SessionStore interface {
	// GetOrCreate registers the session if it does not exist yet.
	GetOrCreate(sessionID string)

	// Append adds one turn, creating the session if needed.
	Append(sessionID string, role TurnRole, content string)

	// AppendTurns adds several turns as one atomic operation, so a
	// user/assistant pair from one request can never interleave with a
	// concurrent request for the same session.
	AppendTurns(sessionID string, turns ...Turn)

	// History returns the last limit turns as "role: content" lines,
	// oldest first. Unknown or empty sessions yield an empty slice.
	History(sessionID string, limit int) []string

	// Turns returns a copy of the full turn sequence.
	Turns(sessionID string) []Turn

	// Known reports whether the session has ever been created.
	Known(sessionID string) bool

	// Len reports the current turn count.
	Len(sessionID string) int

	// Clear empties the turn sequence. ErrSessionNotFound if the session
	// was never created.
	Clear(sessionID string) error
}

// FeedbackStore records per-session, per-chunk-index relevance ratings.
// Only a rating of exactly -1 penalizes an index.
type FeedbackStore interface {
	// Record sets the rating for (sessionID, chunkIndex), overwriting any
	// previous rating for the same pair.
	Record(ctx context.Context, sessionID string, chunkIndex, rating int) error

	// PenalizedIndices returns the set of indices rated exactly -1.
	PenalizedIndices(ctx context.Context, sessionID string) (map[int]bool, error)
}

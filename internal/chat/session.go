package chat

import (
	"fmt"
	"sync"

	"github.com/parenthaven/backend/internal/domain"
)

// MemorySessionStore implements domain.SessionStore with a mutex-guarded map.
// Append operations for one session are serialized by the store lock, so
// turn ordering inside a session is consistent even when concurrent requests
// share a session identifier.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]domain.Turn
}

// NewMemorySessionStore creates an empty in-memory session store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string][]domain.Turn),
	}
}

// GetOrCreate registers the session if it does not exist yet
func (s *MemorySessionStore) GetOrCreate(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		s.sessions[sessionID] = []domain.Turn{}
	}
}

// Append adds one turn, creating the session if needed
func (s *MemorySessionStore) Append(sessionID string, role domain.TurnRole, content string) {
	s.AppendTurns(sessionID, domain.Turn{Role: role, Content: content})
}

// AppendTurns adds several turns atomically
func (s *MemorySessionStore) AppendTurns(sessionID string, turns ...domain.Turn) {
	if len(turns) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], turns...)
}

// History returns the last limit turns as "role: content" lines, oldest first
func (s *MemorySessionStore) History(sessionID string, limit int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.sessions[sessionID]
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}

	lines := make([]string, len(turns))
	for i, t := range turns {
		lines[i] = fmt.Sprintf("%s: %s", t.Role, t.Content)
	}
	return lines
}

// Turns returns a copy of the full turn sequence
func (s *MemorySessionStore) Turns(sessionID string) []domain.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.sessions[sessionID]
	out := make([]domain.Turn, len(turns))
	copy(out, turns)
	return out
}

// Known reports whether the session has ever been created
func (s *MemorySessionStore) Known(sessionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[sessionID]
	return ok
}

// Len reports the current turn count
func (s *MemorySessionStore) Len(sessionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions[sessionID])
}

// Clear empties the turn sequence but keeps the session registered. Feedback
// recorded for the session is not touched.
func (s *MemorySessionStore) Clear(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	s.sessions[sessionID] = []domain.Turn{}
	return nil
}

package chat

import (
	"context"
	"sync"
)

// MemoryFeedbackStore implements domain.FeedbackStore with a mutex-guarded
// map keyed by (session, chunk index).
type MemoryFeedbackStore struct {
	mu      sync.RWMutex
	ratings map[string]map[int]int
}

// NewMemoryFeedbackStore creates an empty in-memory feedback store
func NewMemoryFeedbackStore() *MemoryFeedbackStore {
	return &MemoryFeedbackStore{
		ratings: make(map[string]map[int]int),
	}
}

// Record sets the rating for (sessionID, chunkIndex), overwriting any
// previous rating. Re-recording the same rating is a no-op.
func (s *MemoryFeedbackStore) Record(_ context.Context, sessionID string, chunkIndex, rating int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ratings[sessionID]; !ok {
		s.ratings[sessionID] = make(map[int]int)
	}
	s.ratings[sessionID][chunkIndex] = rating
	return nil
}

// PenalizedIndices returns the indices rated exactly -1 for the session
func (s *MemoryFeedbackStore) PenalizedIndices(_ context.Context, sessionID string) (map[int]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	penalized := make(map[int]bool)
	for idx, rating := range s.ratings[sessionID] {
		if rating == -1 {
			penalized[idx] = true
		}
	}
	return penalized, nil
}

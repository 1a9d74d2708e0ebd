package chat

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/parenthaven/backend/internal/domain"
	"github.com/rs/zerolog/log"
)

func logFilterError(sessionID string, err error) {
	log.Warn().Err(err).Str("session_id", sessionID).Msg("feedback lookup failed, serving unfiltered context")
}

// Suppressor filters retrieved passages using per-session feedback and
// records new ratings. Filter must be called with the candidate list of the
// retrieval the feedback will later refer to.
type Suppressor interface {
	Record(ctx context.Context, sessionID string, chunkIndex, rating int) error
	Filter(ctx context.Context, sessionID string, chunks []string) []string
}

// PositionalSuppressor drops the passage at every penalized position of the
// current candidate list. Feedback is keyed by position, not content, so a
// rating given against one query's ranking applies to the same positions of
// every later query in the session. That staleness is a known limitation of
// the positional strategy; the content strategy avoids it.
type PositionalSuppressor struct {
	store domain.FeedbackStore
}

// NewPositionalSuppressor creates a suppressor backed by the given store
func NewPositionalSuppressor(store domain.FeedbackStore) *PositionalSuppressor {
	return &PositionalSuppressor{store: store}
}

func (s *PositionalSuppressor) Record(ctx context.Context, sessionID string, chunkIndex, rating int) error {
	return s.store.Record(ctx, sessionID, chunkIndex, rating)
}

// Filter drops penalized positions, preserving the relative order of the
// survivors. A feedback-store read failure fails open: better to answer with
// an unfiltered context than to refuse to answer.
func (s *PositionalSuppressor) Filter(ctx context.Context, sessionID string, chunks []string) []string {
	penalized, err := s.store.PenalizedIndices(ctx, sessionID)
	if err != nil {
		logFilterError(sessionID, err)
		return chunks
	}
	if len(penalized) == 0 {
		return chunks
	}

	kept := make([]string, 0, len(chunks))
	for i, c := range chunks {
		if penalized[i] {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// ContentSuppressor penalizes passages by content hash instead of position.
// Filter snapshots the candidate list per session; Record resolves the rated
// index against that snapshot, so the suppression keeps applying even when a
// later retrieval ranks the same passage at a different position.
type ContentSuppressor struct {
	mu        sync.RWMutex
	lastSeen  map[string][]string
	penalized map[string]map[uint64]bool
}

// NewContentSuppressor creates an empty content-hash suppressor
func NewContentSuppressor() *ContentSuppressor {
	return &ContentSuppressor{
		lastSeen:  make(map[string][]string),
		penalized: make(map[string]map[uint64]bool),
	}
}

// Record penalizes the passage at chunkIndex of the session's last retrieval
// when rating is -1. Feedback for an index outside the last retrieval, or
// before any retrieval happened, has nothing to attach to and is dropped.
func (s *ContentSuppressor) Record(_ context.Context, sessionID string, chunkIndex, rating int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := s.lastSeen[sessionID]
	if chunkIndex < 0 || chunkIndex >= len(seen) {
		return nil
	}

	h := contentHash(seen[chunkIndex])
	if _, ok := s.penalized[sessionID]; !ok {
		s.penalized[sessionID] = make(map[uint64]bool)
	}
	if rating == -1 {
		s.penalized[sessionID][h] = true
	} else {
		delete(s.penalized[sessionID], h)
	}
	return nil
}

func (s *ContentSuppressor) Filter(_ context.Context, sessionID string, chunks []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]string, len(chunks))
	copy(snapshot, chunks)
	s.lastSeen[sessionID] = snapshot

	banned := s.penalized[sessionID]
	if len(banned) == 0 {
		return chunks
	}

	kept := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if banned[contentHash(c)] {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

func contentHash(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

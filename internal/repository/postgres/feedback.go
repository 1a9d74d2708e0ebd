package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// FeedbackStore implements domain.FeedbackStore on the feedback table, one
// row per (session, chunk index) with the latest rating.
type FeedbackStore struct {
	pool *pgxpool.Pool
}

// NewFeedbackStore creates a Postgres-backed feedback store
func NewFeedbackStore(db *DB) *FeedbackStore {
	return &FeedbackStore{pool: db.Pool}
}

// Record sets the rating for (sessionID, chunkIndex), overwriting any
// previous rating
func (s *FeedbackStore) Record(ctx context.Context, sessionID string, chunkIndex, rating int) error {
	query := `
		INSERT INTO feedback (session_id, chunk_index, rating)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id, chunk_index) DO UPDATE SET rating = EXCLUDED.rating
	`
	if _, err := s.pool.Exec(ctx, query, sessionID, chunkIndex, rating); err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}
	return nil
}

// PenalizedIndices returns the indices rated exactly -1 for the session
func (s *FeedbackStore) PenalizedIndices(ctx context.Context, sessionID string) (map[int]bool, error) {
	query := `
		SELECT chunk_index
		FROM feedback
		WHERE session_id = $1 AND rating = -1
	`
	rows, err := s.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read feedback: %w", err)
	}
	defer rows.Close()

	penalized := make(map[int]bool)
	for rows.Next() {
		var idx int
		if err := rows.Scan(&idx); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		penalized[idx] = true
	}
	return penalized, nil
}

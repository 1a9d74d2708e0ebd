package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

// PassageRepository inserts embedded corpus chunks. Searching them is the
// retrieval package's job.
type PassageRepository struct {
	pool *pgxpool.Pool
}

// NewPassageRepository creates a new passage repository
func NewPassageRepository(db *DB) *PassageRepository {
	return &PassageRepository{pool: db.Pool}
}

// Insert stores one passage with its embedding
func (r *PassageRepository) Insert(ctx context.Context, content string, embedding []float32) error {
	query := `
		INSERT INTO passages (content, embedding)
		VALUES ($1, $2)
	`
	if _, err := r.pool.Exec(ctx, query, content, pgvector.NewVector(embedding)); err != nil {
		return fmt.Errorf("failed to insert passage: %w", err)
	}
	return nil
}

// Count returns the number of stored passages
func (r *PassageRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM passages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count passages: %w", err)
	}
	return n, nil
}

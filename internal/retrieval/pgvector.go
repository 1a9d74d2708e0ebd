package retrieval

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

// PGVectorRetriever searches the passages table by embedding distance.
// The pool must have pgvector types registered (see postgres.NewDB).
type PGVectorRetriever struct {
	pool     *pgxpool.Pool
	embedder Embedder
}

// NewPGVectorRetriever creates a retriever over the given pool and embedder
func NewPGVectorRetriever(pool *pgxpool.Pool, embedder Embedder) *PGVectorRetriever {
	return &PGVectorRetriever{pool: pool, embedder: embedder}
}

// Search embeds the query and returns the topK nearest passage texts,
// nearest first
func (r *PGVectorRetriever) Search(ctx context.Context, query string, topK int) ([]string, error) {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT content
		FROM passages
		ORDER BY embedding <-> $1
		LIMIT $2
	`, pgvector.NewVector(vec), topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query passages: %w", err)
	}
	defer rows.Close()

	var passages []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("failed to scan passage: %w", err)
		}
		passages = append(passages, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read passages: %w", err)
	}

	return passages, nil
}

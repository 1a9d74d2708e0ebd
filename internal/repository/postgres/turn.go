package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/parenthaven/backend/internal/domain"
)

// TurnRepository is an append-only log of persisted conversation turns.
// The in-memory session store stays authoritative for prompt history; this
// log survives restarts for audit and later analysis.
type TurnRepository struct {
	pool *pgxpool.Pool
}

// NewTurnRepository creates a new turn repository
func NewTurnRepository(db *DB) *TurnRepository {
	return &TurnRepository{pool: db.Pool}
}

// Append records one turn
func (r *TurnRepository) Append(ctx context.Context, sessionID string, role domain.TurnRole, content string) error {
	query := `
		INSERT INTO chat_turns (session_id, role, content)
		VALUES ($1, $2, $3)
	`
	if _, err := r.pool.Exec(ctx, query, sessionID, string(role), content); err != nil {
		return fmt.Errorf("failed to append turn: %w", err)
	}
	return nil
}

// ListBySession returns the last limit turns of a session, oldest first
func (r *TurnRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.Turn, error) {
	query := `
		SELECT role, content
		FROM chat_turns
		WHERE session_id = $1
		ORDER BY id DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}
	defer rows.Close()

	var turns []domain.Turn
	for rows.Next() {
		var t domain.Turn
		var role string
		if err := rows.Scan(&role, &t.Content); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		t.Role = domain.TurnRole(role)
		turns = append(turns, t)
	}

	// Reverse to chronological order, the query fetched the latest N
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	return turns, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/parenthaven/backend/internal/domain"
)

// ErrNotFound signals a missing row for explicit get/update/delete operations
var ErrNotFound = errors.New("not found")

// DiaryRepository persists diary entries
type DiaryRepository struct {
	pool *pgxpool.Pool
}

// NewDiaryRepository creates a new diary repository
func NewDiaryRepository(db *DB) *DiaryRepository {
	return &DiaryRepository{pool: db.Pool}
}

// Create inserts a new entry
func (r *DiaryRepository) Create(ctx context.Context, entry *domain.DiaryEntry) error {
	query := `
		INSERT INTO diary_entries (id, user_id, date, title, content, created_at, updated_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Date,
		entry.Title,
		entry.Content,
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create diary entry: %w", err)
	}
	return nil
}

// Get returns one entry by ID
func (r *DiaryRepository) Get(ctx context.Context, id uuid.UUID) (*domain.DiaryEntry, error) {
	query := `
		SELECT id, user_id, date::text, title, content, created_at, updated_at
		FROM diary_entries
		WHERE id = $1
	`
	var e domain.DiaryEntry
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID,
		&e.UserID,
		&e.Date,
		&e.Title,
		&e.Content,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get diary entry: %w", err)
	}
	return &e, nil
}

// ListByUser returns a user's entries, newest date first
func (r *DiaryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.DiaryEntry, error) {
	query := `
		SELECT id, user_id, date::text, title, content, created_at, updated_at
		FROM diary_entries
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list diary entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.DiaryEntry
	for rows.Next() {
		var e domain.DiaryEntry
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Date,
			&e.Title,
			&e.Content,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan diary entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Update rewrites date, title and content of an existing entry
func (r *DiaryRepository) Update(ctx context.Context, entry *domain.DiaryEntry) error {
	query := `
		UPDATE diary_entries
		SET date = $1::date, title = $2, content = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6
	`
	tag, err := r.pool.Exec(ctx, query,
		entry.Date,
		entry.Title,
		entry.Content,
		entry.UpdatedAt,
		entry.ID,
		entry.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update diary entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an entry owned by the user
func (r *DiaryRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM diary_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete diary entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/parenthaven/backend/internal/domain"
	"github.com/parenthaven/backend/internal/repository/postgres"
)

// ErrDiaryNotFound signals a missing or foreign diary entry
var ErrDiaryNotFound = errors.New("diary entry not found")

// DiaryService handles diary entry operations
type DiaryService struct {
	diaryRepo *postgres.DiaryRepository
}

// NewDiaryService creates a new diary service
func NewDiaryService(diaryRepo *postgres.DiaryRepository) *DiaryService {
	return &DiaryService{diaryRepo: diaryRepo}
}

// Create adds an entry for the user
func (s *DiaryService) Create(ctx context.Context, userID uuid.UUID, input domain.DiaryEntryCreate) (*domain.DiaryEntry, error) {
	now := time.Now()
	entry := &domain.DiaryEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Date:      input.Date,
		Title:     input.Title,
		Content:   input.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.diaryRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create diary entry: %w", err)
	}

	return entry, nil
}

// Get returns one entry, only if the user owns it
func (s *DiaryService) Get(ctx context.Context, userID, entryID uuid.UUID) (*domain.DiaryEntry, error) {
	entry, err := s.diaryRepo.Get(ctx, entryID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrDiaryNotFound
		}
		return nil, err
	}
	if entry.UserID != userID {
		return nil, ErrDiaryNotFound
	}
	return entry, nil
}

// List returns the user's entries, newest date first
func (s *DiaryService) List(ctx context.Context, userID uuid.UUID) ([]domain.DiaryEntry, error) {
	return s.diaryRepo.ListByUser(ctx, userID)
}

// Update rewrites an existing entry owned by the user
func (s *DiaryService) Update(ctx context.Context, userID, entryID uuid.UUID, input domain.DiaryEntryCreate) (*domain.DiaryEntry, error) {
	entry := &domain.DiaryEntry{
		ID:        entryID,
		UserID:    userID,
		Date:      input.Date,
		Title:     input.Title,
		Content:   input.Content,
		UpdatedAt: time.Now(),
	}

	if err := s.diaryRepo.Update(ctx, entry); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrDiaryNotFound
		}
		return nil, fmt.Errorf("failed to update diary entry: %w", err)
	}

	return s.Get(ctx, userID, entryID)
}

// Delete removes an entry owned by the user
func (s *DiaryService) Delete(ctx context.Context, userID, entryID uuid.UUID) error {
	if err := s.diaryRepo.Delete(ctx, entryID, userID); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return ErrDiaryNotFound
		}
		return fmt.Errorf("failed to delete diary entry: %w", err)
	}
	return nil
}

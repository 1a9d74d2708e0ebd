package domain

import (
	"time"

	"github.com/google/uuid"
)

// DiaryEntry is a journaling entry owned by a user
type DiaryEntry struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Date      string    `json:"date"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DiaryEntryCreate is the body for creating or updating an entry
type DiaryEntryCreate struct {
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type JournalEntry struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	RemedyID      string    `json:"remedyId"`
	Dosage        string    `json:"dosage"`
	TakenAt       time.Time `json:"takenAt"`
	Effectiveness int       `json:"effectiveness"`
	Mood          *int      `json:"mood,omitempty"`
	SideEffects   string    `json:"sideEffects"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type JournalFilter struct {
	RemedyID string
	From     *time.Time
	To       *time.Time
}

type JournalRepository interface {
	List(ctx context.Context, userID uuid.UUID, filter JournalFilter, page Page) ([]JournalEntry, int, error)
	Get(ctx context.Context, id uuid.UUID) (*JournalEntry, error)
	// CountCreatedSince counts entries the user created at or after since.
	CountCreatedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
	Create(ctx context.Context, entry *JournalEntry) error
	Update(ctx context.Context, entry *JournalEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MonthStart returns midnight UTC on the first day of t's month.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

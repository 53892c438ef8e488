package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type SearchHistory struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Query       string    `json:"query"`
	Category    string    `json:"category,omitempty"`
	ResultCount int       `json:"resultCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type SearchHistoryRepository interface {
	Record(ctx context.Context, entry *SearchHistory) error
	List(ctx context.Context, userID uuid.UUID, page Page) ([]SearchHistory, int, error)
	Get(ctx context.Context, id uuid.UUID) (*SearchHistory, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) (int64, error)
}

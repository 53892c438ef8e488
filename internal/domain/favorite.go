package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Favorite struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	RemedyID  string    `json:"remedyId"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type FavoriteRepository interface {
	List(ctx context.Context, userID uuid.UUID, page Page) ([]Favorite, int, error)
	Get(ctx context.Context, id uuid.UUID) (*Favorite, error)
	Count(ctx context.Context, userID uuid.UUID) (int, error)
	Create(ctx context.Context, fav *Favorite) error
	Update(ctx context.Context, fav *Favorite) error
	Delete(ctx context.Context, id uuid.UUID) error
}

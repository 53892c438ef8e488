package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Medication is a drug the user takes. Notes are encrypted at rest when a
// data encryption key is configured.
type Medication struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"userId"`
	Name      string     `json:"name"`
	Dosage    string     `json:"dosage"`
	Frequency string     `json:"frequency"`
	Notes     string     `json:"notes"`
	Active    bool       `json:"active"`
	StartedAt *time.Time `json:"startedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type MedicationRepository interface {
	// List returns the user's medications; active filters when non-nil.
	List(ctx context.Context, userID uuid.UUID, active *bool) ([]Medication, error)
	Get(ctx context.Context, id uuid.UUID) (*Medication, error)
	Count(ctx context.Context, userID uuid.UUID) (int, error)
	Create(ctx context.Context, med *Medication) error
	Update(ctx context.Context, med *Medication) error
	Delete(ctx context.Context, id uuid.UUID) error
}

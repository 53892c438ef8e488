package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ContributionStatus string

const (
	ContributionPending  ContributionStatus = "pending"
	ContributionApproved ContributionStatus = "approved"
	ContributionRejected ContributionStatus = "rejected"
)

// Contribution is a user-submitted remedy awaiting moderation.
type Contribution struct {
	ID           uuid.UUID          `json:"id"`
	UserID       uuid.UUID          `json:"userId"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Category     string             `json:"category"`
	Benefits     []string           `json:"benefits"`
	Sources      []string           `json:"sources"`
	ImageKey     string             `json:"imageKey,omitempty"`
	Status       ContributionStatus `json:"status"`
	ReviewerID   *uuid.UUID         `json:"reviewerId,omitempty"`
	RejectReason string             `json:"rejectReason,omitempty"`
	RemedyID     *string            `json:"remedyId,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
	ReviewedAt   *time.Time         `json:"reviewedAt,omitempty"`
}

type ContributionRepository interface {
	Create(ctx context.Context, c *Contribution) error
	Get(ctx context.Context, id uuid.UUID) (*Contribution, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page Page) ([]Contribution, int, error)
	ListPending(ctx context.Context, page Page) ([]Contribution, int, error)
	// Approve creates remedy and marks the contribution approved in one
	// transaction. Returns ErrContributionReviewed if it is no longer pending
	// and ErrRemedyExists if the remedy ID is taken.
	Approve(ctx context.Context, id, reviewerID uuid.UUID, remedy *Remedy, reviewedAt time.Time) error
	Reject(ctx context.Context, id, reviewerID uuid.UUID, reason string, reviewedAt time.Time) error
}

// UploadURL is a presigned URL the client PUTs an image to.
type UploadURL struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UploadPresigner issues short-lived upload URLs for object storage.
type UploadPresigner interface {
	PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (*UploadURL, error)
}

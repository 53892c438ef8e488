package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type UsageKind string

const (
	UsageSearch           UsageKind = "search"
	UsageInteractionCheck UsageKind = "interaction_check"
)

// UsageCounter tracks per-user daily usage.
type UsageCounter interface {
	// Consume records one use on day if the count stays within limit and
	// reports whether it was allowed.
	Consume(ctx context.Context, kind UsageKind, userID uuid.UUID, day time.Time, limit int) (bool, error)
	Used(ctx context.Context, kind UsageKind, userID uuid.UUID, day time.Time) (int, error)
}

// NextDay returns midnight UTC after t, when daily quotas reset.
func NextDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, time.UTC)
}

package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailTaken            = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrRemedyNotFound        = errors.New("remedy not found")
	ErrRemedyExists          = errors.New("remedy already exists")
	ErrFavoriteNotFound      = errors.New("favorite not found")
	ErrFavoriteExists        = errors.New("remedy already in favorites")
	ErrJournalEntryNotFound  = errors.New("journal entry not found")
	ErrMedicationNotFound    = errors.New("medication not found")
	ErrMedicationExists      = errors.New("medication already exists")
	ErrSubscriptionNotFound  = errors.New("subscription not found")
	ErrSearchHistoryNotFound = errors.New("search history entry not found")
	ErrContributionNotFound  = errors.New("contribution not found")
	ErrContributionReviewed  = errors.New("contribution has already been reviewed")

	// ErrNotOwner is returned when a user addresses another user's resource.
	ErrNotOwner = errors.New("resource belongs to another user")

	ErrUnknownPlan      = errors.New("unknown plan")
	ErrSamePlan         = errors.New("already subscribed to this plan")
	ErrFreePlanCancel   = errors.New("the free plan cannot be canceled")
	ErrInsufficientRole = errors.New("insufficient role")
	ErrUploadsDisabled  = errors.New("image uploads are not configured")
	ErrInvalidImageKey  = errors.New("image key was not issued to this user")
	ErrInvalidRemedyID  = errors.New("cannot derive a valid remedy ID")
	ErrPasswordTooLong  = errors.New("password exceeds 72 bytes")
	ErrTooFewRemedies   = errors.New("comparison needs at least two distinct remedies")
)

// FeatureError reports that the caller's plan does not include a feature.
type FeatureError struct {
	Feature Feature
	Plan    PlanName
}

func (e *FeatureError) Error() string {
	return fmt.Sprintf("feature %q is not available on the %s plan", e.Feature, e.Plan)
}

// LimitError reports that a plan's stored-resource limit has been reached.
type LimitError struct {
	Resource string
	Limit    int
	Plan     PlanName
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s limit of %d reached on the %s plan", e.Resource, e.Limit, e.Plan)
}

// QuotaError reports that a daily usage quota is used up.
type QuotaError struct {
	Kind    UsageKind
	Limit   int
	ResetAt time.Time
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("daily %s quota of %d exhausted", e.Kind, e.Limit)
}

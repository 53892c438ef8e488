package apiclient

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AuthResult struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Remedy struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Benefits    []string  `json:"benefits"`
	Evidence    string    `json:"evidence"`
	PremiumOnly bool      `json:"premiumOnly"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Category struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Favorite struct {
	ID        uuid.UUID `json:"id"`
	RemedyID  string    `json:"remedyId"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type JournalEntry struct {
	ID            uuid.UUID `json:"id"`
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

type JournalEntryInput struct {
	RemedyID      string     `json:"remedyId"`
	Dosage        string     `json:"dosage,omitempty"`
	TakenAt       *time.Time `json:"takenAt,omitempty"`
	Effectiveness int        `json:"effectiveness"`
	Mood          *int       `json:"mood,omitempty"`
	SideEffects   string     `json:"sideEffects,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

type Medication struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Dosage    string     `json:"dosage"`
	Frequency string     `json:"frequency"`
	Notes     string     `json:"notes"`
	Active    bool       `json:"active"`
	StartedAt *time.Time `json:"startedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type MedicationInput struct {
	Name      string     `json:"name"`
	Dosage    string     `json:"dosage,omitempty"`
	Frequency string     `json:"frequency,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	Active    *bool      `json:"active,omitempty"`
	StartedAt *time.Time `json:"startedAt,omitempty"`
}

type Limits struct {
	MaxFavorites            int `json:"maxFavorites"`
	MaxMedications          int `json:"maxMedications"`
	MaxJournalPerMonth      int `json:"maxJournalPerMonth"`
	SearchesPerDay          int `json:"searchesPerDay"`
	InteractionChecksPerDay int `json:"interactionChecksPerDay"`
	MaxCompare              int `json:"maxCompare"`
}

type Plan struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	PriceCents  int      `json:"priceCents"`
	Limits      Limits   `json:"limits"`
	Features    []string `json:"features"`
}

type Subscription struct {
	ID                 uuid.UUID `json:"id"`
	Plan               string    `json:"plan"`
	Status             string    `json:"status"`
	CurrentPeriodStart time.Time `json:"currentPeriodStart"`
	CurrentPeriodEnd   time.Time `json:"currentPeriodEnd"`
	CancelAtPeriodEnd  bool      `json:"cancelAtPeriodEnd"`
}

type Usage struct {
	Favorites              int `json:"favorites"`
	Medications            int `json:"medications"`
	JournalThisMonth       int `json:"journalThisMonth"`
	SearchesToday          int `json:"searchesToday"`
	InteractionChecksToday int `json:"interactionChecksToday"`
}

type SubscriptionOverview struct {
	Subscription  Subscription `json:"subscription"`
	EffectivePlan Plan         `json:"effectivePlan"`
	Usage         Usage        `json:"usage"`
}

type InteractionCheckInput struct {
	Remedies             []string `json:"remedies"`
	Medications          []string `json:"medications,omitempty"`
	IncludeMyMedications bool     `json:"includeMyMedications,omitempty"`
}

type InteractionFinding struct {
	InteractionID  uuid.UUID `json:"interactionId"`
	Remedy         string    `json:"remedy"`
	Other          string    `json:"other"`
	OtherKind      string    `json:"otherKind"`
	Severity       string    `json:"severity"`
	Description    string    `json:"description"`
	Recommendation string    `json:"recommendation"`
}

type InteractionReport struct {
	Findings        []InteractionFinding `json:"findings"`
	HighestSeverity string               `json:"highestSeverity,omitempty"`
	Safe            bool                 `json:"safe"`
	Unrecognized    []string             `json:"unrecognized"`
	PairsChecked    int                  `json:"pairsChecked"`
}

type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

// Page is one window of a paginated list.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// ListOptions selects a page; zero values use the server defaults.
type ListOptions struct {
	Page  int
	Limit int
}

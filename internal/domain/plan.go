package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type PlanName string

const (
	PlanFree    PlanName = "free"
	PlanBasic   PlanName = "basic"
	PlanPremium PlanName = "premium"
)

// Unlimited marks a limit that is never enforced.
const Unlimited = -1

// BillingPeriod is the length of one paid subscription period.
const BillingPeriod = 30 * 24 * time.Hour

type Feature string

const (
	FeatureComparison         Feature = "comparison"
	FeatureInteractionChecker Feature = "interaction_checker"
	FeaturePremiumRemedies    Feature = "premium_remedies"
	FeatureJournalExport      Feature = "journal_export"
	FeatureContributions      Feature = "contributions"
)

type Limits struct {
	MaxFavorites            int `json:"maxFavorites"`
	MaxMedications          int `json:"maxMedications"`
	MaxJournalPerMonth      int `json:"maxJournalPerMonth"`
	SearchesPerDay          int `json:"searchesPerDay"`
	InteractionChecksPerDay int `json:"interactionChecksPerDay"`
	MaxCompare              int `json:"maxCompare"`
}

type Plan struct {
	Name        PlanName  `json:"name"`
	DisplayName string    `json:"displayName"`
	PriceCents  int       `json:"priceCents"`
	Limits      Limits    `json:"limits"`
	Features    []Feature `json:"features"`
}

// HasFeature reports whether the plan includes f.
func (p Plan) HasFeature(f Feature) bool {
	for _, have := range p.Features {
		if have == f {
			return true
		}
	}
	return false
}

// WithinLimit reports whether current is below limit. Unlimited always passes.
func WithinLimit(current, limit int) bool {
	return limit == Unlimited || current < limit
}

var plans = map[PlanName]Plan{
	PlanFree: {
		Name:        PlanFree,
		DisplayName: "Free",
		PriceCents:  0,
		Limits: Limits{
			MaxFavorites:            10,
			MaxMedications:          3,
			MaxJournalPerMonth:      30,
			SearchesPerDay:          20,
			InteractionChecksPerDay: 3,
			MaxCompare:              0,
		},
		Features: []Feature{FeatureInteractionChecker},
	},
	PlanBasic: {
		Name:        PlanBasic,
		DisplayName: "Basic",
		PriceCents:  499,
		Limits: Limits{
			MaxFavorites:            100,
			MaxMedications:          10,
			MaxJournalPerMonth:      300,
			SearchesPerDay:          200,
			InteractionChecksPerDay: 50,
			MaxCompare:              3,
		},
		Features: []Feature{FeatureComparison, FeatureInteractionChecker, FeatureContributions},
	},
	PlanPremium: {
		Name:        PlanPremium,
		DisplayName: "Premium",
		PriceCents:  999,
		Limits: Limits{
			MaxFavorites:            Unlimited,
			MaxMedications:          Unlimited,
			MaxJournalPerMonth:      Unlimited,
			SearchesPerDay:          Unlimited,
			InteractionChecksPerDay: Unlimited,
			MaxCompare:              4,
		},
		Features: []Feature{
			FeatureComparison, FeatureInteractionChecker, FeaturePremiumRemedies,
			FeatureJournalExport, FeatureContributions,
		},
	},
}

// LookupPlan returns the plan definition for name.
func LookupPlan(name PlanName) (Plan, bool) {
	p, ok := plans[name]
	return p, ok
}

// PlanFor returns the plan definition for name, falling back to free.
func PlanFor(name PlanName) Plan {
	if p, ok := plans[name]; ok {
		return p
	}
	return plans[PlanFree]
}

// Plans lists all plans from cheapest to most expensive.
func Plans() []Plan {
	return []Plan{plans[PlanFree], plans[PlanBasic], plans[PlanPremium]}
}

type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "active"
	StatusCanceled SubscriptionStatus = "canceled"
	StatusPastDue  SubscriptionStatus = "past_due"
)

type Subscription struct {
	ID                 uuid.UUID          `json:"id"`
	UserID             uuid.UUID          `json:"userId"`
	Plan               PlanName           `json:"plan"`
	Status             SubscriptionStatus `json:"status"`
	CurrentPeriodStart time.Time          `json:"currentPeriodStart"`
	CurrentPeriodEnd   time.Time          `json:"currentPeriodEnd"`
	CancelAtPeriodEnd  bool               `json:"cancelAtPeriodEnd"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// EffectivePlan returns the plan whose limits apply at now. Canceled or
// past-due subscriptions keep their plan until the period ends, then drop to free.
func (s *Subscription) EffectivePlan(now time.Time) PlanName {
	if s == nil {
		return PlanFree
	}
	lapsed := s.Status != StatusActive || s.CancelAtPeriodEnd
	if lapsed && !now.Before(s.CurrentPeriodEnd) {
		return PlanFree
	}
	return s.Plan
}

// NewFreeSubscription builds the subscription every account starts with.
func NewFreeSubscription(userID uuid.UUID, now time.Time) *Subscription {
	return &Subscription{
		ID:                 uuid.New(),
		UserID:             userID,
		Plan:               PlanFree,
		Status:             StatusActive,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.Add(BillingPeriod),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

type SubscriptionRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Subscription, error)
	Upsert(ctx context.Context, sub *Subscription) error
}

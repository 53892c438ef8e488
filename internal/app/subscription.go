package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pscheid92/remedyhub/internal/domain"
)

// Usage is what the user has consumed of their plan's limits.
type Usage struct {
	Favorites              int `json:"favorites"`
	Medications            int `json:"medications"`
	JournalThisMonth       int `json:"journalThisMonth"`
	SearchesToday          int `json:"searchesToday"`
	InteractionChecksToday int `json:"interactionChecksToday"`
}

// SubscriptionOverview is the subscription with the plan in effect and current usage.
type SubscriptionOverview struct {
	Subscription  *domain.Subscription `json:"subscription"`
	EffectivePlan domain.Plan          `json:"effectivePlan"`
	Usage         Usage                `json:"usage"`
}

// GetSubscription returns the user's subscription, creating the free one if
// the account has none yet.
func (s *Service) GetSubscription(ctx context.Context, userID uuid.UUID) (*SubscriptionOverview, error) {
	sub, err := s.ensureSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}

	usage, err := s.usageFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &SubscriptionOverview{
		Subscription:  sub,
		EffectivePlan: domain.PlanFor(sub.EffectivePlan(s.clock.Now())),
		Usage:         usage,
	}, nil
}

// ChangePlan switches the user to plan and starts a new billing period.
// Choosing the current plan again only succeeds when it resumes a pending
// cancellation.
func (s *Service) ChangePlan(ctx context.Context, userID uuid.UUID, plan domain.PlanName) (*domain.Subscription, error) {
	if _, ok := domain.LookupPlan(plan); !ok {
		return nil, domain.ErrUnknownPlan
	}

	sub, err := s.ensureSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if sub.EffectivePlan(now) == plan && sub.Status == domain.StatusActive && !sub.CancelAtPeriodEnd {
		return nil, domain.ErrSamePlan
	}

	previous := sub.Plan
	sub.Plan = plan
	sub.Status = domain.StatusActive
	sub.CurrentPeriodStart = now
	sub.CurrentPeriodEnd = now.Add(domain.BillingPeriod)
	sub.CancelAtPeriodEnd = false
	sub.UpdatedAt = now

	if err := s.repos.Subscriptions.Upsert(ctx, sub); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Subscription plan changed", "user_id", userID.String(), "from", previous, "to", plan)
	return sub, nil
}

// CancelSubscription schedules the paid plan to end with the current period.
func (s *Service) CancelSubscription(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	sub, err := s.ensureSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if sub.EffectivePlan(now) == domain.PlanFree {
		return nil, domain.ErrFreePlanCancel
	}
	if sub.CancelAtPeriodEnd {
		return sub, nil
	}

	sub.CancelAtPeriodEnd = true
	sub.UpdatedAt = now
	if err := s.repos.Subscriptions.Upsert(ctx, sub); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Subscription canceled at period end", "user_id", userID.String(), "period_end", sub.CurrentPeriodEnd)
	return sub, nil
}

func (s *Service) ensureSubscription(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	sub, err := s.repos.Subscriptions.GetByUserID(ctx, userID)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, domain.ErrSubscriptionNotFound) {
		return nil, err
	}

	sub = domain.NewFreeSubscription(userID, s.clock.Now())
	if err := s.repos.Subscriptions.Upsert(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *Service) usageFor(ctx context.Context, userID uuid.UUID) (Usage, error) {
	var u Usage
	var err error
	now := s.clock.Now()

	if u.Favorites, err = s.repos.Favorites.Count(ctx, userID); err != nil {
		return Usage{}, err
	}
	if u.Medications, err = s.repos.Medications.Count(ctx, userID); err != nil {
		return Usage{}, err
	}
	if u.JournalThisMonth, err = s.repos.Journal.CountCreatedSince(ctx, userID, domain.MonthStart(now)); err != nil {
		return Usage{}, err
	}

	u.SearchesToday = s.usedToday(ctx, domain.UsageSearch, userID)
	u.InteractionChecksToday = s.usedToday(ctx, domain.UsageInteractionCheck, userID)
	return u, nil
}

func (s *Service) usedToday(ctx context.Context, kind domain.UsageKind, userID uuid.UUID) int {
	n, err := s.usage.Used(ctx, kind, userID, s.clock.Now())
	if err != nil {
		slog.WarnContext(ctx, "Failed to read usage counter", "kind", kind, "user_id", userID.String(), "error", err)
		return 0
	}
	return n
}

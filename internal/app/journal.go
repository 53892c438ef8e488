package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pscheid92/remedyhub/internal/domain"
)

// JournalInput describes a new journal entry. A zero TakenAt means now.
type JournalInput struct {
	RemedyID      string
	Dosage        string
	TakenAt       time.Time
	Effectiveness int
	Mood          *int
	SideEffects   string
	Notes         string
}

// JournalPatch carries the fields to change; nil fields stay as they are.
type JournalPatch struct {
	Dosage        *string
	TakenAt       *time.Time
	Effectiveness *int
	Mood          *int
	SideEffects   *string
	Notes         *string
}

func (s *Service) ListJournal(ctx context.Context, userID uuid.UUID, filter domain.JournalFilter, page domain.Page) ([]domain.JournalEntry, int, error) {
	return s.repos.Journal.List(ctx, userID, filter, page)
}

func (s *Service) GetJournalEntry(ctx context.Context, userID, id uuid.UUID) (*domain.JournalEntry, error) {
	return s.ownedJournalEntry(ctx, userID, id)
}

// CreateJournalEntry logs a remedy use. Entries count against the plan's
// monthly limit by creation time in the current calendar month (UTC).
func (s *Service) CreateJournalEntry(ctx context.Context, userID uuid.UUID, in JournalInput) (*domain.JournalEntry, error) {
	if _, err := s.repos.Remedies.GetByID(ctx, in.RemedyID); err != nil {
		return nil, err
	}

	plan, err := s.planFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if plan.Limits.MaxJournalPerMonth != domain.Unlimited {
		count, err := s.repos.Journal.CountCreatedSince(ctx, userID, domain.MonthStart(now))
		if err != nil {
			return nil, err
		}
		if !domain.WithinLimit(count, plan.Limits.MaxJournalPerMonth) {
			return nil, &domain.LimitError{Resource: "journal entries per month", Limit: plan.Limits.MaxJournalPerMonth, Plan: plan.Name}
		}
	}

	takenAt := in.TakenAt
	if takenAt.IsZero() {
		takenAt = now
	}

	entry := &domain.JournalEntry{
		ID:            uuid.New(),
		UserID:        userID,
		RemedyID:      in.RemedyID,
		Dosage:        in.Dosage,
		TakenAt:       takenAt,
		Effectiveness: in.Effectiveness,
		Mood:          in.Mood,
		SideEffects:   in.SideEffects,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repos.Journal.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Service) UpdateJournalEntry(ctx context.Context, userID, id uuid.UUID, patch JournalPatch) (*domain.JournalEntry, error) {
	entry, err := s.ownedJournalEntry(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Dosage != nil {
		entry.Dosage = *patch.Dosage
	}
	if patch.TakenAt != nil {
		entry.TakenAt = *patch.TakenAt
	}
	if patch.Effectiveness != nil {
		entry.Effectiveness = *patch.Effectiveness
	}
	if patch.Mood != nil {
		entry.Mood = patch.Mood
	}
	if patch.SideEffects != nil {
		entry.SideEffects = *patch.SideEffects
	}
	if patch.Notes != nil {
		entry.Notes = *patch.Notes
	}
	entry.UpdatedAt = s.clock.Now()

	if err := s.repos.Journal.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Service) DeleteJournalEntry(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.ownedJournalEntry(ctx, userID, id); err != nil {
		return err
	}
	return s.repos.Journal.Delete(ctx, id)
}

func (s *Service) ownedJournalEntry(ctx context.Context, userID, id uuid.UUID) (*domain.JournalEntry, error) {
	entry, err := s.repos.Journal.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, domain.ErrNotOwner
	}
	return entry, nil
}

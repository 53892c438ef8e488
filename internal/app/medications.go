package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pscheid92/remedyhub/internal/domain"
)

// MedicationInput describes a new medication. Active defaults to true.
type MedicationInput struct {
	Name      string
	Dosage    string
	Frequency string
	Notes     string
	Active    *bool
	StartedAt *time.Time
}

// MedicationPatch carries the fields to change; nil fields stay as they are.
type MedicationPatch struct {
	Name      *string
	Dosage    *string
	Frequency *string
	Notes     *string
	Active    *bool
	StartedAt *time.Time
}

func (s *Service) ListMedications(ctx context.Context, userID uuid.UUID, active *bool) ([]domain.Medication, error) {
	return s.repos.Medications.List(ctx, userID, active)
}

// CreateMedication adds a medication within the plan's medication limit.
func (s *Service) CreateMedication(ctx context.Context, userID uuid.UUID, in MedicationInput) (*domain.Medication, error) {
	plan, err := s.planFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.repos.Medications.Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !domain.WithinLimit(count, plan.Limits.MaxMedications) {
		return nil, &domain.LimitError{Resource: "medications", Limit: plan.Limits.MaxMedications, Plan: plan.Name}
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	now := s.clock.Now()
	med := &domain.Medication{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      strings.TrimSpace(in.Name),
		Dosage:    in.Dosage,
		Frequency: in.Frequency,
		Notes:     in.Notes,
		Active:    active,
		StartedAt: in.StartedAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repos.Medications.Create(ctx, med); err != nil {
		return nil, err
	}
	return med, nil
}

func (s *Service) UpdateMedication(ctx context.Context, userID, id uuid.UUID, patch MedicationPatch) (*domain.Medication, error) {
	med, err := s.ownedMedication(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		med.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Dosage != nil {
		med.Dosage = *patch.Dosage
	}
	if patch.Frequency != nil {
		med.Frequency = *patch.Frequency
	}
	if patch.Notes != nil {
		med.Notes = *patch.Notes
	}
	if patch.Active != nil {
		med.Active = *patch.Active
	}
	if patch.StartedAt != nil {
		med.StartedAt = patch.StartedAt
	}
	med.UpdatedAt = s.clock.Now()

	if err := s.repos.Medications.Update(ctx, med); err != nil {
		return nil, err
	}
	return med, nil
}

func (s *Service) DeleteMedication(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.ownedMedication(ctx, userID, id); err != nil {
		return err
	}
	return s.repos.Medications.Delete(ctx, id)
}

func (s *Service) ownedMedication(ctx context.Context, userID, id uuid.UUID) (*domain.Medication, error) {
	med, err := s.repos.Medications.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if med.UserID != userID {
		return nil, domain.ErrNotOwner
	}
	return med, nil
}

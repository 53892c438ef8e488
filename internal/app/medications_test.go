package app

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pscheid92/remedyhub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMedication_DefaultsActive(t *testing.T) {
	svc, d := newTestService(t, Options{})
	var created *domain.Medication
	d.medications.createFn = func(_ context.Context, m *domain.Medication) error {
		created = m
		return nil
	}

	med, err := svc.CreateMedication(context.Background(), uuid.New(), MedicationInput{Name: "  Warfarin ", Dosage: "5mg"})
	require.NoError(t, err)

	assert.Same(t, med, created)
	assert.Equal(t, "Warfarin", med.Name)
	assert.True(t, med.Active)
}

func TestCreateMedication_ExplicitInactive(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	inactive := false

	med, err := svc.CreateMedication(context.Background(), uuid.New(), MedicationInput{Name: "Ibuprofen", Active: &inactive})
	require.NoError(t, err)
	assert.False(t, med.Active)
}

func TestCreateMedication_Limit(t *testing.T) {
	svc, d := newTestService(t, Options{})
	d.medications.countFn = func(context.Context, uuid.UUID) (int, error) { return 3, nil }

	_, err := svc.CreateMedication(context.Background(), uuid.New(), MedicationInput{Name: "Sertraline"})

	var le *domain.LimitError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "medications", le.Resource)
	assert.Equal(t, 3, le.Limit)
}

func TestCreateMedication_Duplicate(t *testing.T) {
	svc, d := newTestService(t, Options{})
	d.medications.createFn = func(context.Context, *domain.Medication) error { return domain.ErrMedicationExists }

	_, err := svc.CreateMedication(context.Background(), uuid.New(), MedicationInput{Name: "Sertraline"})
	assert.ErrorIs(t, err, domain.ErrMedicationExists)
}

func TestUpdateMedication(t *testing.T) {
	owner := uuid.New()
	svc, d := newTestService(t, Options{})
	d.medications.getFn = func(_ context.Context, id uuid.UUID) (*domain.Medication, error) {
		return &domain.Medication{ID: id, UserID: owner, Name: "Sertraline", Dosage: "50mg", Active: true}, nil
	}

	inactive := false
	dosage := "100mg"
	med, err := svc.UpdateMedication(context.Background(), owner, uuid.New(), MedicationPatch{Active: &inactive, Dosage: &dosage})
	require.NoError(t, err)
	assert.False(t, med.Active)
	assert.Equal(t, "100mg", med.Dosage)
	assert.Equal(t, "Sertraline", med.Name)

	_, err = svc.UpdateMedication(context.Background(), uuid.New(), uuid.New(), MedicationPatch{Active: &inactive})
	assert.ErrorIs(t, err, domain.ErrNotOwner)
}

func TestDeleteMedication_NotFound(t *testing.T) {
	svc, _ := newTestService(t, Options{})

	err := svc.DeleteMedication(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrMedicationNotFound)
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pscheid92/remedyhub/internal/domain"
	"github.com/pscheid92/remedyhub/internal/platform/crypto"
)

const medicationColumns = `id, user_id, name, dosage, frequency, notes, active, started_at, created_at, updated_at`

// MedicationRepo stores medications with their free-text notes encrypted at rest.
type MedicationRepo struct {
	pool   *pgxpool.Pool
	crypto crypto.Service
}

func NewMedicationRepo(pool *pgxpool.Pool, cryptoSvc crypto.Service) *MedicationRepo {
	return &MedicationRepo{pool: pool, crypto: cryptoSvc}
}

func (r *MedicationRepo) scan(row pgx.Row) (domain.Medication, error) {
	var m domain.Medication
	if err := row.Scan(&m.ID, &m.UserID, &m.Name, &m.Dosage, &m.Frequency, &m.Notes, &m.Active,
		&m.StartedAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return m, err
	}

	notes, err := r.crypto.Decrypt(m.Notes)
	if err != nil {
		return m, fmt.Errorf("failed to decrypt medication notes: %w", err)
	}
	m.Notes = notes
	return m, nil
}

func (r *MedicationRepo) List(ctx context.Context, userID uuid.UUID, active *bool) ([]domain.Medication, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+medicationColumns+` FROM medications
		WHERE user_id = $1 AND ($2::boolean IS NULL OR active = $2)
		ORDER BY lower(name)`, userID, active)
	if err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}

	meds, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Medication, error) {
		return r.scan(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan medications: %w", err)
	}
	return meds, nil
}

func (r *MedicationRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Medication, error) {
	m, err := r.scan(r.pool.QueryRow(ctx, `SELECT `+medicationColumns+` FROM medications WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrMedicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get medication: %w", err)
	}
	return &m, nil
}

func (r *MedicationRepo) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM medications WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count medications: %w", err)
	}
	return n, nil
}

func (r *MedicationRepo) Create(ctx context.Context, m *domain.Medication) error {
	notes, err := r.crypto.Encrypt(m.Notes)
	if err != nil {
		return fmt.Errorf("failed to encrypt medication notes: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO medications (`+medicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.ID, m.UserID, m.Name, m.Dosage, m.Frequency, notes, m.Active, m.StartedAt, m.CreatedAt, m.UpdatedAt)
	switch {
	case isViolation(err, uniqueViolation, "medications_user_name_key"):
		return domain.ErrMedicationExists
	case isViolation(err, foreignKeyViolation, ""):
		return domain.ErrUserNotFound
	case err != nil:
		return fmt.Errorf("failed to insert medication: %w", err)
	}
	return nil
}

func (r *MedicationRepo) Update(ctx context.Context, m *domain.Medication) error {
	notes, err := r.crypto.Encrypt(m.Notes)
	if err != nil {
		return fmt.Errorf("failed to encrypt medication notes: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE medications
		SET name = $2, dosage = $3, frequency = $4, notes = $5, active = $6, started_at = $7, updated_at = $8
		WHERE id = $1`,
		m.ID, m.Name, m.Dosage, m.Frequency, notes, m.Active, m.StartedAt, m.UpdatedAt)
	if isViolation(err, uniqueViolation, "medications_user_name_key") {
		return domain.ErrMedicationExists
	}
	if err != nil {
		return fmt.Errorf("failed to update medication: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMedicationNotFound
	}
	return nil
}

func (r *MedicationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM medications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMedicationNotFound
	}
	return nil
}

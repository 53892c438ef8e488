package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pscheid92/remedyhub/internal/domain"
)

type InteractionRepo struct {
	pool *pgxpool.Pool
}

func NewInteractionRepo(pool *pgxpool.Pool) *InteractionRepo {
	return &InteractionRepo{pool: pool}
}

func (r *InteractionRepo) All(ctx context.Context) ([]domain.Interaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, subject_a, subject_b, severity, description, recommendation
		FROM interactions
		ORDER BY subject_a, subject_b`)
	if err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}

	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Interaction, error) {
		var in domain.Interaction
		err := row.Scan(&in.ID, &in.SubjectA, &in.SubjectB, &in.Severity, &in.Description, &in.Recommendation)
		return in, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan interactions: %w", err)
	}
	return list, nil
}

// Upsert stores the pair with subject_a < subject_b regardless of input order.
func (r *InteractionRepo) Upsert(ctx context.Context, in *domain.Interaction) error {
	a, b := in.SubjectA, in.SubjectB
	if b < a {
		a, b = b, a
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO interactions (id, subject_a, subject_b, severity, description, recommendation)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (subject_a, subject_b) DO UPDATE SET
			severity = EXCLUDED.severity,
			description = EXCLUDED.description,
			recommendation = EXCLUDED.recommendation`,
		in.ID, a, b, in.Severity, in.Description, in.Recommendation)
	if err != nil {
		return fmt.Errorf("failed to upsert interaction: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pscheid92/remedyhub/internal/domain"
)

const contributionColumns = `id, user_id, name, description, category, benefits, sources, image_key, status,
	reviewer_id, reject_reason, remedy_id, created_at, reviewed_at`

type ContributionRepo struct {
	pool *pgxpool.Pool
}

func NewContributionRepo(pool *pgxpool.Pool) *ContributionRepo {
	return &ContributionRepo{pool: pool}
}

func scanContribution(row pgx.Row) (domain.Contribution, error) {
	var c domain.Contribution
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Category, &c.Benefits, &c.Sources,
		&c.ImageKey, &c.Status, &c.ReviewerID, &c.RejectReason, &c.RemedyID, &c.CreatedAt, &c.ReviewedAt)
	return c, err
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (r *ContributionRepo) Create(ctx context.Context, c *domain.Contribution) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO remedy_contributions (id, user_id, name, description, category, benefits, sources, image_key, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.UserID, c.Name, c.Description, c.Category, emptyIfNil(c.Benefits), emptyIfNil(c.Sources),
		c.ImageKey, c.Status, c.CreatedAt)
	if isViolation(err, foreignKeyViolation, "") {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to insert contribution: %w", err)
	}
	return nil
}

func (r *ContributionRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Contribution, error) {
	c, err := scanContribution(r.pool.QueryRow(ctx, `SELECT `+contributionColumns+` FROM remedy_contributions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrContributionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contribution: %w", err)
	}
	return &c, nil
}

func (r *ContributionRepo) ListByUser(ctx context.Context, userID uuid.UUID, page domain.Page) ([]domain.Contribution, int, error) {
	return r.list(ctx, `user_id = $1`, userID, page)
}

func (r *ContributionRepo) ListPending(ctx context.Context, page domain.Page) ([]domain.Contribution, int, error) {
	return r.list(ctx, `status = $1`, domain.ContributionPending, page)
}

func (r *ContributionRepo) list(ctx context.Context, where string, arg any, page domain.Page) ([]domain.Contribution, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM remedy_contributions WHERE `+where, arg).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count contributions: %w", err)
	}

	limit, offset := limitOffset(page)
	rows, err := r.pool.Query(ctx, `
		SELECT `+contributionColumns+` FROM remedy_contributions
		WHERE `+where+`
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`, arg, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contributions: %w", err)
	}

	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Contribution, error) {
		return scanContribution(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan contributions: %w", err)
	}
	return list, total, nil
}

// lockPending locks the contribution row and checks it still awaits review.
func lockPending(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	var status domain.ContributionStatus
	err := tx.QueryRow(ctx, `SELECT status FROM remedy_contributions WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrContributionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock contribution: %w", err)
	}
	if status != domain.ContributionPending {
		return domain.ErrContributionReviewed
	}
	return nil
}

func (r *ContributionRepo) Approve(ctx context.Context, id, reviewerID uuid.UUID, remedy *domain.Remedy, reviewedAt time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockPending(ctx, tx, id); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO remedies (id, name, description, category, benefits, evidence, premium_only, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		remedy.ID, remedy.Name, remedy.Description, remedy.Category, emptyIfNil(remedy.Benefits),
		remedy.Evidence, remedy.PremiumOnly, reviewedAt)
	if isViolation(err, uniqueViolation, "remedies_pkey") {
		return domain.ErrRemedyExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert remedy: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE remedy_contributions
		SET status = $2, reviewer_id = $3, remedy_id = $4, reviewed_at = $5
		WHERE id = $1`,
		id, domain.ContributionApproved, reviewerID, remedy.ID, reviewedAt)
	if err != nil {
		return fmt.Errorf("failed to approve contribution: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *ContributionRepo) Reject(ctx context.Context, id, reviewerID uuid.UUID, reason string, reviewedAt time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockPending(ctx, tx, id); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE remedy_contributions
		SET status = $2, reviewer_id = $3, reject_reason = $4, reviewed_at = $5
		WHERE id = $1`,
		id, domain.ContributionRejected, reviewerID, reason, reviewedAt)
	if err != nil {
		return fmt.Errorf("failed to reject contribution: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

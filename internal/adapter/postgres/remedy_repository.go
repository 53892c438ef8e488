package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pscheid92/remedyhub/internal/domain"
)

const remedyColumns = `id, name, description, category, benefits, evidence, premium_only, created_at`

type RemedyRepo struct {
	pool *pgxpool.Pool
}

func NewRemedyRepo(pool *pgxpool.Pool) *RemedyRepo {
	return &RemedyRepo{pool: pool}
}

func scanRemedy(row pgx.Row) (domain.Remedy, error) {
	var r domain.Remedy
	err := row.Scan(&r.ID, &r.Name, &r.Description, &r.Category, &r.Benefits, &r.Evidence, &r.PremiumOnly, &r.CreatedAt)
	return r, err
}

// searchFilter is shared by the count and the page query; $1 query, $2 category, $3 include premium.
const searchFilter = `
	($1 = '' OR name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%'
		OR EXISTS (SELECT 1 FROM unnest(benefits) AS b WHERE b ILIKE '%' || $1 || '%'))
	AND ($2 = '' OR category = $2)
	AND ($3 OR NOT premium_only)`

func (r *RemedyRepo) Search(ctx context.Context, filter domain.RemedyFilter, page domain.Page) (*domain.SearchResult, error) {
	q := escapeLike(filter.Query)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM remedies WHERE`+searchFilter,
		q, filter.Category, filter.IncludePremium).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count remedies: %w", err)
	}

	limit, offset := limitOffset(page)
	rows, err := r.pool.Query(ctx, `SELECT `+remedyColumns+` FROM remedies WHERE`+searchFilter+`
		ORDER BY name, id LIMIT $4 OFFSET $5`,
		q, filter.Category, filter.IncludePremium, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search remedies: %w", err)
	}

	remedies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Remedy, error) {
		return scanRemedy(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan remedies: %w", err)
	}

	return &domain.SearchResult{Remedies: remedies, Total: total}, nil
}

func (r *RemedyRepo) GetByID(ctx context.Context, id string) (*domain.Remedy, error) {
	remedy, err := scanRemedy(r.pool.QueryRow(ctx, `SELECT `+remedyColumns+` FROM remedies WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRemedyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get remedy: %w", err)
	}
	return &remedy, nil
}

// GetMany returns the remedies in the order of ids. Unknown IDs are skipped.
func (r *RemedyRepo) GetMany(ctx context.Context, ids []string) ([]domain.Remedy, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+remedyColumns+` FROM remedies
		WHERE id = ANY($1)
		ORDER BY array_position($1, id)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get remedies: %w", err)
	}

	remedies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Remedy, error) {
		return scanRemedy(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan remedies: %w", err)
	}
	return remedies, nil
}

func (r *RemedyRepo) Categories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT category, count(*) FROM remedies GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Category, error) {
		var c domain.Category
		err := row.Scan(&c.Name, &c.Count)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan categories: %w", err)
	}
	return categories, nil
}

func (r *RemedyRepo) Upsert(ctx context.Context, remedy *domain.Remedy) error {
	benefits := remedy.Benefits
	if benefits == nil {
		benefits = []string{}
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO remedies (id, name, description, category, benefits, evidence, premium_only)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			benefits = EXCLUDED.benefits,
			evidence = EXCLUDED.evidence,
			premium_only = EXCLUDED.premium_only`,
		remedy.ID, remedy.Name, remedy.Description, remedy.Category, benefits, remedy.Evidence, remedy.PremiumOnly)
	if err != nil {
		return fmt.Errorf("failed to upsert remedy: %w", err)
	}
	return nil
}

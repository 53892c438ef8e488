package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pscheid92/remedyhub/internal/domain"
)

const searchHistoryColumns = `id, user_id, query, category, result_count, created_at`

type SearchHistoryRepo struct {
	pool *pgxpool.Pool
}

func NewSearchHistoryRepo(pool *pgxpool.Pool) *SearchHistoryRepo {
	return &SearchHistoryRepo{pool: pool}
}

func scanSearchHistory(row pgx.Row) (domain.SearchHistory, error) {
	var h domain.SearchHistory
	err := row.Scan(&h.ID, &h.UserID, &h.Query, &h.Category, &h.ResultCount, &h.CreatedAt)
	return h, err
}

func (r *SearchHistoryRepo) Record(ctx context.Context, h *domain.SearchHistory) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO search_history (`+searchHistoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		h.ID, h.UserID, h.Query, h.Category, h.ResultCount, h.CreatedAt)
	if isViolation(err, foreignKeyViolation, "") {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}

func (r *SearchHistoryRepo) List(ctx context.Context, userID uuid.UUID, page domain.Page) ([]domain.SearchHistory, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM search_history WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count search history: %w", err)
	}

	limit, offset := limitOffset(page)
	rows, err := r.pool.Query(ctx, `
		SELECT `+searchHistoryColumns+` FROM search_history
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list search history: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.SearchHistory, error) {
		return scanSearchHistory(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan search history: %w", err)
	}
	return entries, total, nil
}

func (r *SearchHistoryRepo) Get(ctx context.Context, id uuid.UUID) (*domain.SearchHistory, error) {
	h, err := scanSearchHistory(r.pool.QueryRow(ctx, `SELECT `+searchHistoryColumns+` FROM search_history WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSearchHistoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get search history entry: %w", err)
	}
	return &h, nil
}

func (r *SearchHistoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM search_history WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete search history entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSearchHistoryNotFound
	}
	return nil
}

func (r *SearchHistoryRepo) Clear(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM search_history WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear search history: %w", err)
	}
	return tag.RowsAffected(), nil
}

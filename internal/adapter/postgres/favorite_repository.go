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

const favoriteColumns = `id, user_id, remedy_id, notes, created_at, updated_at`

type FavoriteRepo struct {
	pool *pgxpool.Pool
}

func NewFavoriteRepo(pool *pgxpool.Pool) *FavoriteRepo {
	return &FavoriteRepo{pool: pool}
}

func scanFavorite(row pgx.Row) (domain.Favorite, error) {
	var f domain.Favorite
	err := row.Scan(&f.ID, &f.UserID, &f.RemedyID, &f.Notes, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

func (r *FavoriteRepo) List(ctx context.Context, userID uuid.UUID, page domain.Page) ([]domain.Favorite, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM favorites WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count favorites: %w", err)
	}

	limit, offset := limitOffset(page)
	rows, err := r.pool.Query(ctx, `
		SELECT `+favoriteColumns+` FROM favorites
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list favorites: %w", err)
	}

	favorites, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Favorite, error) {
		return scanFavorite(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan favorites: %w", err)
	}
	return favorites, total, nil
}

func (r *FavoriteRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Favorite, error) {
	f, err := scanFavorite(r.pool.QueryRow(ctx, `SELECT `+favoriteColumns+` FROM favorites WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrFavoriteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get favorite: %w", err)
	}
	return &f, nil
}

func (r *FavoriteRepo) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM favorites WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return n, nil
}

func (r *FavoriteRepo) Create(ctx context.Context, fav *domain.Favorite) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO favorites (`+favoriteColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		fav.ID, fav.UserID, fav.RemedyID, fav.Notes, fav.CreatedAt, fav.UpdatedAt)
	switch {
	case isViolation(err, uniqueViolation, "favorites_user_remedy_key"):
		return domain.ErrFavoriteExists
	case isViolation(err, foreignKeyViolation, "favorites_remedy_id_fkey"):
		return domain.ErrRemedyNotFound
	case isViolation(err, foreignKeyViolation, "favorites_user_id_fkey"):
		return domain.ErrUserNotFound
	case err != nil:
		return fmt.Errorf("failed to insert favorite: %w", err)
	}
	return nil
}

func (r *FavoriteRepo) Update(ctx context.Context, fav *domain.Favorite) error {
	tag, err := r.pool.Exec(ctx, `UPDATE favorites SET notes = $2, updated_at = $3 WHERE id = $1`,
		fav.ID, fav.Notes, fav.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFavoriteNotFound
	}
	return nil
}

func (r *FavoriteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM favorites WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFavoriteNotFound
	}
	return nil
}

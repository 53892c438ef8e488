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

const journalColumns = `id, user_id, remedy_id, dosage, taken_at, effectiveness, mood, side_effects, notes, created_at, updated_at`

type JournalRepo struct {
	pool *pgxpool.Pool
}

func NewJournalRepo(pool *pgxpool.Pool) *JournalRepo {
	return &JournalRepo{pool: pool}
}

func scanJournalEntry(row pgx.Row) (domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := row.Scan(&e.ID, &e.UserID, &e.RemedyID, &e.Dosage, &e.TakenAt, &e.Effectiveness, &e.Mood,
		&e.SideEffects, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// journalFilter: $1 user, $2 remedy ('' for all), $3 from, $4 to (NULL for open).
const journalFilter = `
	user_id = $1
	AND ($2 = '' OR remedy_id = $2)
	AND ($3::timestamptz IS NULL OR taken_at >= $3)
	AND ($4::timestamptz IS NULL OR taken_at < $4)`

func (r *JournalRepo) List(ctx context.Context, userID uuid.UUID, filter domain.JournalFilter, page domain.Page) ([]domain.JournalEntry, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM journal_entries WHERE`+journalFilter,
		userID, filter.RemedyID, filter.From, filter.To).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count journal entries: %w", err)
	}

	limit, offset := limitOffset(page)
	rows, err := r.pool.Query(ctx, `SELECT `+journalColumns+` FROM journal_entries WHERE`+journalFilter+`
		ORDER BY taken_at DESC, id
		LIMIT $5 OFFSET $6`,
		userID, filter.RemedyID, filter.From, filter.To, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list journal entries: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.JournalEntry, error) {
		return scanJournalEntry(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan journal entries: %w", err)
	}
	return entries, total, nil
}

func (r *JournalRepo) Get(ctx context.Context, id uuid.UUID) (*domain.JournalEntry, error) {
	e, err := scanJournalEntry(r.pool.QueryRow(ctx, `SELECT `+journalColumns+` FROM journal_entries WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrJournalEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}
	return &e, nil
}

func (r *JournalRepo) CountCreatedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM journal_entries WHERE user_id = $1 AND created_at >= $2`,
		userID, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count journal entries: %w", err)
	}
	return n, nil
}

func (r *JournalRepo) Create(ctx context.Context, e *domain.JournalEntry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO journal_entries (`+journalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, e.UserID, e.RemedyID, e.Dosage, e.TakenAt, e.Effectiveness, e.Mood,
		e.SideEffects, e.Notes, e.CreatedAt, e.UpdatedAt)
	switch {
	case isViolation(err, foreignKeyViolation, "journal_entries_remedy_id_fkey"):
		return domain.ErrRemedyNotFound
	case isViolation(err, foreignKeyViolation, "journal_entries_user_id_fkey"):
		return domain.ErrUserNotFound
	case err != nil:
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}
	return nil
}

func (r *JournalRepo) Update(ctx context.Context, e *domain.JournalEntry) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE journal_entries
		SET dosage = $2, taken_at = $3, effectiveness = $4, mood = $5, side_effects = $6, notes = $7, updated_at = $8
		WHERE id = $1`,
		e.ID, e.Dosage, e.TakenAt, e.Effectiveness, e.Mood, e.SideEffects, e.Notes, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update journal entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrJournalEntryNotFound
	}
	return nil
}

func (r *JournalRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM journal_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrJournalEntryNotFound
	}
	return nil
}

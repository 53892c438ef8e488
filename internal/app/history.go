package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/pscheid92/remedyhub/internal/domain"
)

func (s *Service) ListSearchHistory(ctx context.Context, userID uuid.UUID, page domain.Page) ([]domain.SearchHistory, int, error) {
	return s.repos.History.List(ctx, userID, page)
}

func (s *Service) DeleteSearchHistory(ctx context.Context, userID, id uuid.UUID) error {
	entry, err := s.repos.History.Get(ctx, id)
	if err != nil {
		return err
	}
	if entry.UserID != userID {
		return domain.ErrNotOwner
	}
	return s.repos.History.Delete(ctx, id)
}

// ClearSearchHistory deletes all of the user's history and returns how many entries were removed.
func (s *Service) ClearSearchHistory(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repos.History.Clear(ctx, userID)
}

package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/pscheid92/remedyhub/internal/domain"
)

func (s *Service) ListFavorites(ctx context.Context, userID uuid.UUID, page domain.Page) ([]domain.Favorite, int, error) {
	return s.repos.Favorites.List(ctx, userID, page)
}

// AddFavorite bookmarks a remedy within the plan's favorites limit.
func (s *Service) AddFavorite(ctx context.Context, userID uuid.UUID, remedyID, notes string) (*domain.Favorite, error) {
	remedy, err := s.repos.Remedies.GetByID(ctx, remedyID)
	if err != nil {
		return nil, err
	}

	plan, err := s.planFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if remedy.PremiumOnly {
		if err := requireFeature(plan, domain.FeaturePremiumRemedies); err != nil {
			return nil, err
		}
	}

	count, err := s.repos.Favorites.Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !domain.WithinLimit(count, plan.Limits.MaxFavorites) {
		return nil, &domain.LimitError{Resource: "favorites", Limit: plan.Limits.MaxFavorites, Plan: plan.Name}
	}

	now := s.clock.Now()
	fav := &domain.Favorite{
		ID:        uuid.New(),
		UserID:    userID,
		RemedyID:  remedy.ID,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repos.Favorites.Create(ctx, fav); err != nil {
		return nil, err
	}
	return fav, nil
}

func (s *Service) UpdateFavorite(ctx context.Context, userID, id uuid.UUID, notes string) (*domain.Favorite, error) {
	fav, err := s.ownedFavorite(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	fav.Notes = notes
	fav.UpdatedAt = s.clock.Now()
	if err := s.repos.Favorites.Update(ctx, fav); err != nil {
		return nil, err
	}
	return fav, nil
}

func (s *Service) DeleteFavorite(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.ownedFavorite(ctx, userID, id); err != nil {
		return err
	}
	return s.repos.Favorites.Delete(ctx, id)
}

func (s *Service) ownedFavorite(ctx context.Context, userID, id uuid.UUID) (*domain.Favorite, error) {
	fav, err := s.repos.Favorites.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if fav.UserID != userID {
		return nil, domain.ErrNotOwner
	}
	return fav, nil
}

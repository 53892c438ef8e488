package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pscheid92/remedyhub/internal/domain"
)

// Catalog is the curated data SeedCatalog writes.
type Catalog struct {
	Remedies     []domain.Remedy
	Interactions []domain.Interaction
}

// SeedResult counts what SeedCatalog upserted.
type SeedResult struct {
	Remedies     int `json:"remedies"`
	Interactions int `json:"interactions"`
}

// SeedCatalog upserts the remedy catalog and the interaction table. Seeding
// is idempotent, so it is safe on every start.
func (s *Service) SeedCatalog(ctx context.Context, catalog Catalog) (SeedResult, error) {
	var res SeedResult
	for i := range catalog.Remedies {
		if err := s.repos.Remedies.Upsert(ctx, &catalog.Remedies[i]); err != nil {
			return res, fmt.Errorf("failed to seed remedy %s: %w", catalog.Remedies[i].ID, err)
		}
		res.Remedies++
	}
	for i := range catalog.Interactions {
		if err := s.repos.Interactions.Upsert(ctx, &catalog.Interactions[i]); err != nil {
			in := catalog.Interactions[i]
			return res, fmt.Errorf("failed to seed interaction %s/%s: %w", in.SubjectA, in.SubjectB, err)
		}
		res.Interactions++
	}

	if _, err := s.reloadChecker(ctx); err != nil {
		return res, err
	}
	s.notifyCatalogChanged(ctx)
	slog.InfoContext(ctx, "Catalog seeded", "remedies", res.Remedies, "interactions", res.Interactions)
	return res, nil
}

package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/pscheid92/remedyhub/internal/domain"
)

// RemedySearch is a catalog query. Both fields are optional.
type RemedySearch struct {
	Query    string
	Category string
}

func (q RemedySearch) isSearch() bool {
	return q.Query != "" || q.Category != ""
}

// SearchRemedies searches the catalog. userID is uuid.Nil for anonymous
// callers, who see the free catalog. Searches by signed-in users count
// against their daily quota and are kept in their search history; plain
// browsing without query or category is neither counted nor recorded. A
// search that fails is not counted either.
func (s *Service) SearchRemedies(ctx context.Context, userID uuid.UUID, q RemedySearch, page domain.Page) (*domain.SearchResult, error) {
	q.Query = strings.TrimSpace(q.Query)
	q.Category = strings.TrimSpace(q.Category)
	signedIn := userID != uuid.Nil

	plan := domain.PlanFor(domain.PlanFree)
	if signedIn {
		var err error
		if plan, err = s.planFor(ctx, userID); err != nil {
			return nil, err
		}
	}

	filter := domain.RemedyFilter{
		Query:          q.Query,
		Category:       q.Category,
		IncludePremium: plan.HasFeature(domain.FeaturePremiumRemedies),
	}
	res, err := s.cachedSearch(ctx, filter, page)
	if err != nil {
		return nil, err
	}

	if signedIn && q.isSearch() {
		if err := s.consumeQuota(ctx, domain.UsageSearch, userID, plan.Limits.SearchesPerDay); err != nil {
			return nil, err
		}
		entry := &domain.SearchHistory{
			ID:          uuid.New(),
			UserID:      userID,
			Query:       q.Query,
			Category:    q.Category,
			ResultCount: res.Total,
			CreatedAt:   s.clock.Now(),
		}
		if err := s.repos.History.Record(ctx, entry); err != nil {
			slog.WarnContext(ctx, "Failed to record search history", "user_id", userID.String(), "error", err)
		}
	}
	return res, nil
}

// cachedSearch reads through the search cache. Concurrent identical searches
// share one database query. Keys carry the catalog fingerprint, so entries
// written before a catalog change are never read after this replica reloads.
func (s *Service) cachedSearch(ctx context.Context, filter domain.RemedyFilter, page domain.Page) (*domain.SearchResult, error) {
	if s.opts.SearchCache == nil {
		return s.repos.Remedies.Search(ctx, filter, page)
	}

	version, err := s.currentCatalogVersion(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Catalog version unavailable, bypassing search cache", "error", err)
		return s.repos.Remedies.Search(ctx, filter, page)
	}

	key := "v=" + version + "|" + searchKey(filter, page)
	v, err, _ := s.searchGroup.Do(key, func() (any, error) {
		cached, ok, err := s.opts.SearchCache.GetSearch(ctx, key)
		if err != nil {
			slog.WarnContext(ctx, "Search cache read failed", "error", err)
		}
		if ok {
			return cached, nil
		}

		res, err := s.repos.Remedies.Search(ctx, filter, page)
		if err != nil {
			return nil, err
		}
		if err := s.opts.SearchCache.SetSearch(ctx, key, res, s.opts.SearchCacheTTL); err != nil {
			slog.WarnContext(ctx, "Search cache write failed", "error", err)
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.SearchResult), nil
}

func searchKey(f domain.RemedyFilter, p domain.Page) string {
	return fmt.Sprintf("q=%s|c=%s|premium=%t|l=%d|o=%d",
		strings.ToLower(f.Query), strings.ToLower(f.Category), f.IncludePremium, p.Limit, p.Offset)
}

// GetRemedy returns one remedy. Premium-only remedies need the premium feature.
func (s *Service) GetRemedy(ctx context.Context, userID uuid.UUID, id string) (*domain.Remedy, error) {
	remedy, err := s.repos.Remedies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if remedy.PremiumOnly {
		if err := s.requirePremiumAccess(ctx, userID); err != nil {
			return nil, err
		}
	}
	return remedy, nil
}

func (s *Service) requirePremiumAccess(ctx context.Context, userID uuid.UUID) error {
	plan := domain.PlanFor(domain.PlanFree)
	if userID != uuid.Nil {
		var err error
		if plan, err = s.planFor(ctx, userID); err != nil {
			return err
		}
	}
	return requireFeature(plan, domain.FeaturePremiumRemedies)
}

// CompareRemedies returns the remedies side by side, in request order.
// Duplicate IDs are collapsed; at least two distinct remedies must remain.
func (s *Service) CompareRemedies(ctx context.Context, userID uuid.UUID, ids []string) ([]domain.Remedy, error) {
	plan, err := s.planFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := requireFeature(plan, domain.FeatureComparison); err != nil {
		return nil, err
	}

	unique := dedupe(ids)
	if len(unique) < 2 {
		return nil, domain.ErrTooFewRemedies
	}
	if !domain.WithinLimit(len(unique)-1, plan.Limits.MaxCompare) {
		return nil, &domain.LimitError{Resource: "compared remedies", Limit: plan.Limits.MaxCompare, Plan: plan.Name}
	}

	remedies, err := s.repos.Remedies.GetMany(ctx, unique)
	if err != nil {
		return nil, err
	}

	found := make(map[string]struct{}, len(remedies))
	for _, r := range remedies {
		found[r.ID] = struct{}{}
		if r.PremiumOnly {
			if err := requireFeature(plan, domain.FeaturePremiumRemedies); err != nil {
				return nil, err
			}
		}
	}
	for _, id := range unique {
		if _, ok := found[id]; !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrRemedyNotFound, id)
		}
	}
	return remedies, nil
}

func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.repos.Remedies.Categories(ctx)
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

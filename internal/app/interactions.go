package app

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/pscheid92/remedyhub/internal/domain"
	"github.com/pscheid92/remedyhub/internal/interactions"
)

// InteractionCheck lists what to check. IncludeMyMedications adds the user's
// active medications to Medications.
type InteractionCheck struct {
	Remedies             []string
	Medications          []string
	IncludeMyMedications bool
}

// CheckInteractions runs the interaction checker for the user within the
// plan's daily quota.
func (s *Service) CheckInteractions(ctx context.Context, userID uuid.UUID, in InteractionCheck) (*interactions.Report, error) {
	plan, err := s.planFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := requireFeature(plan, domain.FeatureInteractionChecker); err != nil {
		return nil, err
	}

	meds := in.Medications
	if in.IncludeMyMedications {
		active := true
		mine, err := s.repos.Medications.List(ctx, userID, &active)
		if err != nil {
			return nil, err
		}
		for _, m := range mine {
			meds = append(meds, m.Name)
		}
	}

	checker, err := s.currentChecker(ctx)
	if err != nil {
		return nil, err
	}

	// Charged only once every read has succeeded.
	if err := s.consumeQuota(ctx, domain.UsageInteractionCheck, userID, plan.Limits.InteractionChecksPerDay); err != nil {
		return nil, err
	}

	report := checker.Check(in.Remedies, dedupeFold(meds))
	if s.opts.UsageMetrics != nil {
		highest := string(report.HighestSeverity)
		if highest == "" {
			highest = "none"
		}
		s.opts.UsageMetrics.InteractionChecks.WithLabelValues(highest).Inc()
	}
	return &report, nil
}

// currentChecker returns the cached checker, loading it on first use.
func (s *Service) currentChecker(ctx context.Context) (*interactions.Checker, error) {
	s.checkerMu.RLock()
	c := s.checker
	s.checkerMu.RUnlock()
	if c != nil {
		return c, nil
	}
	return s.reloadChecker(ctx)
}

// reloadChecker rebuilds the checker from the interaction table and the
// remedy catalog. Concurrent reloads share one build.
func (s *Service) reloadChecker(ctx context.Context) (*interactions.Checker, error) {
	v, err, _ := s.checkerGroup.Do("checker", func() (any, error) {
		list, err := s.repos.Interactions.All(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load interactions: %w", err)
		}
		catalog, err := s.repos.Remedies.Search(ctx, domain.RemedyFilter{IncludePremium: true}, domain.Page{})
		if err != nil {
			return nil, fmt.Errorf("failed to load remedies: %w", err)
		}

		c := interactions.NewChecker(list,
			interactions.WithAliases(s.opts.Aliases),
			interactions.WithRemedies(catalog.Remedies))

		s.checkerMu.Lock()
		s.checker = c
		s.catalogVersion = catalogFingerprint(catalog.Remedies)
		s.checkerMu.Unlock()
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*interactions.Checker), nil
}

// CatalogStatus describes the catalog snapshot this replica serves.
type CatalogStatus struct {
	InteractionPairs int    `json:"interactionPairs"`
	Version          string `json:"version"`
}

// CatalogStatus reports the loaded interaction table, loading it on first use.
func (s *Service) CatalogStatus(ctx context.Context) (CatalogStatus, error) {
	c, err := s.currentChecker(ctx)
	if err != nil {
		return CatalogStatus{}, err
	}
	version, err := s.currentCatalogVersion(ctx)
	if err != nil {
		return CatalogStatus{}, err
	}
	return CatalogStatus{InteractionPairs: c.Size(), Version: version}, nil
}

// currentCatalogVersion returns the fingerprint of the loaded catalog,
// loading it on first use.
func (s *Service) currentCatalogVersion(ctx context.Context) (string, error) {
	s.checkerMu.RLock()
	v := s.catalogVersion
	s.checkerMu.RUnlock()
	if v != "" {
		return v, nil
	}
	if _, err := s.reloadChecker(ctx); err != nil {
		return "", err
	}
	s.checkerMu.RLock()
	defer s.checkerMu.RUnlock()
	return s.catalogVersion, nil
}

// catalogFingerprint hashes the searchable remedy fields. Replicas that
// loaded the same catalog agree on it, so they keep sharing cache entries.
func catalogFingerprint(remedies []domain.Remedy) string {
	sorted := slices.Clone(remedies)
	slices.SortFunc(sorted, func(a, b domain.Remedy) int { return strings.Compare(a.ID, b.ID) })

	h := xxhash.New()
	for _, r := range sorted {
		_, _ = fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\x00%s\x00%t\x00%s\n",
			r.ID, r.Name, r.Description, r.Category, r.Evidence, r.PremiumOnly, strings.Join(r.Benefits, "\x1f"))
	}
	return strconv.FormatUint(h.Sum64(), 36)
}

// dedupeFold drops names that repeat case-insensitively, keeping the first spelling.
func dedupeFold(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		key := strings.ToLower(strings.TrimSpace(v))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

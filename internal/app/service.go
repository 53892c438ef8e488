package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/remedyhub/internal/adapter/metrics"
	"github.com/pscheid92/remedyhub/internal/domain"
	"github.com/pscheid92/remedyhub/internal/interactions"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
)

const (
	defaultSearchCacheTTL   = 5 * time.Minute
	defaultUploadURLTTL     = 15 * time.Minute
	defaultCheckerRefresh   = 10 * time.Minute
	checkerRefreshTimeout   = 30 * time.Second
	contributionImagePrefix = "contributions/"
)

// Repositories groups the persistence ports the service orchestrates.
type Repositories struct {
	Users         domain.UserRepository
	Subscriptions domain.SubscriptionRepository
	Remedies      domain.RemedyRepository
	Favorites     domain.FavoriteRepository
	Journal       domain.JournalRepository
	Medications   domain.MedicationRepository
	History       domain.SearchHistoryRepository
	Interactions  domain.InteractionRepository
	Contributions domain.ContributionRepository
}

// Options tunes caches and external integrations. Zero values pick defaults.
type Options struct {
	// SearchCache may be nil; searches then always hit the database.
	SearchCache    domain.SearchCache
	SearchCacheTTL time.Duration

	// Uploads may be nil when no bucket is configured.
	Uploads      domain.UploadPresigner
	UploadURLTTL time.Duration

	// Aliases maps brand and class names onto interaction subjects.
	Aliases        map[string][]string
	CheckerRefresh time.Duration

	// Notifier may be nil; replicas then pick up catalog changes on the
	// next periodic refresh.
	Notifier domain.CatalogNotifier

	BcryptCost       int
	UsageMetrics     *metrics.UsageMetrics
	DisableRefresher bool
}

// Service is the application layer. It is the only component that references
// multiple domain components and orchestrates all use cases.
type Service struct {
	repos       Repositories
	usage       domain.UsageCounter
	clock       clockwork.Clock
	opts        Options
	searchGroup singleflight.Group

	checkerGroup   singleflight.Group
	checkerMu      sync.RWMutex
	checker        *interactions.Checker
	catalogVersion string

	dummyHashOnce sync.Once
	dummyHash     []byte

	refreshStopCh chan struct{}
	stopOnce      sync.Once
	refreshWg     sync.WaitGroup
}

// NewService creates the application layer service and starts the background
// refresh of the interaction checker.
func NewService(repos Repositories, usage domain.UsageCounter, clock clockwork.Clock, opts Options) *Service {
	if opts.SearchCacheTTL <= 0 {
		opts.SearchCacheTTL = defaultSearchCacheTTL
	}
	if opts.UploadURLTTL <= 0 {
		opts.UploadURLTTL = defaultUploadURLTTL
	}
	if opts.CheckerRefresh <= 0 {
		opts.CheckerRefresh = defaultCheckerRefresh
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	s := &Service{
		repos:         repos,
		usage:         usage,
		clock:         clock,
		opts:          opts,
		refreshStopCh: make(chan struct{}),
	}

	if !opts.DisableRefresher {
		s.startCheckerRefresh()
	}
	return s
}

// Plans lists every plan with its limits and features.
func (s *Service) Plans() []domain.Plan {
	return domain.Plans()
}

// planFor returns the plan currently in effect for the user. Users without a
// subscription row are on the free plan.
func (s *Service) planFor(ctx context.Context, userID uuid.UUID) (domain.Plan, error) {
	sub, err := s.repos.Subscriptions.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrSubscriptionNotFound) {
		return domain.PlanFor(domain.PlanFree), nil
	}
	if err != nil {
		return domain.Plan{}, err
	}
	return domain.PlanFor(sub.EffectivePlan(s.clock.Now())), nil
}

func requireFeature(plan domain.Plan, f domain.Feature) error {
	if !plan.HasFeature(f) {
		return &domain.FeatureError{Feature: f, Plan: plan.Name}
	}
	return nil
}

// consumeQuota records one use of a daily quota. When the counter store is
// unavailable the request is let through and the failure logged.
func (s *Service) consumeQuota(ctx context.Context, kind domain.UsageKind, userID uuid.UUID, limit int) error {
	now := s.clock.Now()
	allowed, err := s.usage.Consume(ctx, kind, userID, now, limit)
	if err != nil {
		slog.WarnContext(ctx, "Usage counter unavailable, allowing request",
			"kind", kind, "user_id", userID.String(), "error", err)
		return nil
	}
	if !allowed {
		if s.opts.UsageMetrics != nil {
			s.opts.UsageMetrics.QuotaRejections.WithLabelValues(string(kind)).Inc()
		}
		return &domain.QuotaError{Kind: kind, Limit: limit, ResetAt: domain.NextDay(now)}
	}
	return nil
}

// requireModerator loads the user and checks their role.
func (s *Service) requireModerator(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.Role.CanModerate() {
		return nil, domain.ErrInsufficientRole
	}
	return user, nil
}

func (s *Service) startCheckerRefresh() {
	ticker := s.clock.NewTicker(s.opts.CheckerRefresh)
	s.refreshWg.Add(1)
	go func() {
		defer s.refreshWg.Done()
		for {
			select {
			case <-ticker.Chan():
				ctx, cancel := context.WithTimeout(context.Background(), checkerRefreshTimeout)
				if _, err := s.reloadChecker(ctx); err != nil {
					slog.Error("Failed to refresh interaction checker", "error", err)
				}
				cancel()
			case <-s.refreshStopCh:
				ticker.Stop()
				return
			}
		}
	}()
	slog.Info("Interaction checker refresh started", "interval", s.opts.CheckerRefresh.String())
}

// ReloadCatalog rebuilds the interaction checker. It runs when another
// replica announces a catalog change.
func (s *Service) ReloadCatalog(ctx context.Context) error {
	_, err := s.reloadChecker(ctx)
	return err
}

func (s *Service) notifyCatalogChanged(ctx context.Context) {
	if s.opts.Notifier == nil {
		return
	}
	if err := s.opts.Notifier.PublishCatalogChanged(ctx); err != nil {
		slog.WarnContext(ctx, "Failed to announce catalog change", "error", err)
	}
}

// Stop stops the background refresh and waits for it to finish.
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		close(s.refreshStopCh)
	})
	s.refreshWg.Wait()
}

package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/remedyhub/internal/adapter/metrics"
	"github.com/pscheid92/remedyhub/internal/app"
	"github.com/pscheid92/remedyhub/internal/domain"
	"github.com/pscheid92/remedyhub/internal/interactions"
	"github.com/pscheid92/remedyhub/internal/platform/config"
	"github.com/pscheid92/remedyhub/internal/validation"
)

type appService interface {
	Register(ctx context.Context, email, name, password string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, upd app.ProfileUpdate) (*domain.User, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID) error

	SearchRemedies(ctx context.Context, userID uuid.UUID, q app.RemedySearch, page domain.Page) (*domain.SearchResult, error)
	GetRemedy(ctx context.Context, userID uuid.UUID, id string) (*domain.Remedy, error)
	CompareRemedies(ctx context.Context, userID uuid.UUID, ids []string) ([]domain.Remedy, error)
	Categories(ctx context.Context) ([]domain.Category, error)

	ListFavorites(ctx context.Context, userID uuid.UUID, page domain.Page) ([]domain.Favorite, int, error)
	AddFavorite(ctx context.Context, userID uuid.UUID, remedyID, notes string) (*domain.Favorite, error)
	UpdateFavorite(ctx context.Context, userID, id uuid.UUID, notes string) (*domain.Favorite, error)
	DeleteFavorite(ctx context.Context, userID, id uuid.UUID) error

	ListJournal(ctx context.Context, userID uuid.UUID, filter domain.JournalFilter, page domain.Page) ([]domain.JournalEntry, int, error)
	GetJournalEntry(ctx context.Context, userID, id uuid.UUID) (*domain.JournalEntry, error)
	CreateJournalEntry(ctx context.Context, userID uuid.UUID, in app.JournalInput) (*domain.JournalEntry, error)
	UpdateJournalEntry(ctx context.Context, userID, id uuid.UUID, patch app.JournalPatch) (*domain.JournalEntry, error)
	DeleteJournalEntry(ctx context.Context, userID, id uuid.UUID) error

	ListMedications(ctx context.Context, userID uuid.UUID, active *bool) ([]domain.Medication, error)
	CreateMedication(ctx context.Context, userID uuid.UUID, in app.MedicationInput) (*domain.Medication, error)
	UpdateMedication(ctx context.Context, userID, id uuid.UUID, patch app.MedicationPatch) (*domain.Medication, error)
	DeleteMedication(ctx context.Context, userID, id uuid.UUID) error

	Plans() []domain.Plan
	GetSubscription(ctx context.Context, userID uuid.UUID) (*app.SubscriptionOverview, error)
	ChangePlan(ctx context.Context, userID uuid.UUID, plan domain.PlanName) (*domain.Subscription, error)
	CancelSubscription(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error)

	ListSearchHistory(ctx context.Context, userID uuid.UUID, page domain.Page) ([]domain.SearchHistory, int, error)
	DeleteSearchHistory(ctx context.Context, userID, id uuid.UUID) error
	ClearSearchHistory(ctx context.Context, userID uuid.UUID) (int64, error)

	CheckInteractions(ctx context.Context, userID uuid.UUID, in app.InteractionCheck) (*interactions.Report, error)
	CatalogStatus(ctx context.Context) (app.CatalogStatus, error)

	SubmitContribution(ctx context.Context, userID uuid.UUID, in app.ContributionInput) (*domain.Contribution, error)
	ListMyContributions(ctx context.Context, userID uuid.UUID, page domain.Page) ([]domain.Contribution, int, error)
	ListPendingContributions(ctx context.Context, moderatorID uuid.UUID, page domain.Page) ([]domain.Contribution, int, error)
	ApproveContribution(ctx context.Context, moderatorID, id uuid.UUID, a app.Approval) (*domain.Remedy, error)
	RejectContribution(ctx context.Context, moderatorID, id uuid.UUID, reason string) (*domain.Contribution, error)
	CreateUploadURL(ctx context.Context, userID uuid.UUID, contentType string) (*domain.UploadURL, error)
}

// Deps carries the optional collaborators of the server.
type Deps struct {
	Registry     *prometheus.Registry
	HTTPMetrics  *metrics.HTTPMetrics
	HealthChecks []HealthCheck
	Clock        clockwork.Clock
}

type Server struct {
	echo   *echo.Echo
	config *config.Config
	clock  clockwork.Clock

	app          appService
	sessionStore *sessions.CookieStore
	tokens       *tokenManager

	registry     *prometheus.Registry
	httpMetrics  *metrics.HTTPMetrics
	healthChecks []HealthCheck
	startTime    time.Time
}

func NewServer(cfg *config.Config, app appService, deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	srv := &Server{
		echo:         e,
		config:       cfg,
		clock:        clock,
		app:          app,
		sessionStore: setupSessionStore(cfg),
		tokens:       newTokenManager(cfg.JWTSecret, cfg.JWTTTL, clock),
		registry:     deps.Registry,
		httpMetrics:  deps.HTTPMetrics,
		healthChecks: deps.HealthChecks,
		startTime:    clock.Now(),
	}

	e.Validator = validation.Validator{}
	e.HTTPErrorHandler = srv.httpErrorHandler
	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// ServeHTTP lets the server be mounted on any http.Server or driven by httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Session keys
const (
	sessionName      = "remedyhub-session"
	sessionKeyUserID = "user_id"
)

func setupSessionStore(cfg *config.Config) *sessions.CookieStore {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
	return sessionStore
}

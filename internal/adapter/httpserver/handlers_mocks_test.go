package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/remedyhub/internal/app"
	"github.com/pscheid92/remedyhub/internal/domain"
	"github.com/pscheid92/remedyhub/internal/interactions"
	"github.com/pscheid92/remedyhub/internal/platform/config"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockAppService struct {
	registerFn                 func(ctx context.Context, email, name, password string) (*domain.User, error)
	authenticateFn             func(ctx context.Context, email, password string) (*domain.User, error)
	getUserFn                  func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	updateProfileFn            func(ctx context.Context, userID uuid.UUID, upd app.ProfileUpdate) (*domain.User, error)
	deleteAccountFn            func(ctx context.Context, userID uuid.UUID) error
	searchRemediesFn           func(ctx context.Context, userID uuid.UUID, q app.RemedySearch, page domain.Page) (*domain.SearchResult, error)
	getRemedyFn                func(ctx context.Context, userID uuid.UUID, id string) (*domain.Remedy, error)
	compareRemediesFn          func(ctx context.Context, userID uuid.UUID, ids []string) ([]domain.Remedy, error)
	categoriesFn               func(ctx context.Context) ([]domain.Category, error)
	listFavoritesFn            func(ctx context.Context, userID uuid.UUID, page domain.Page) ([]domain.Favorite, int, error)
	addFavoriteFn              func(ctx context.Context, userID uuid.UUID, remedyID, notes string) (*domain.Favorite, error)
	updateFavoriteFn           func(ctx context.Context, userID, id uuid.UUID, notes string) (*domain.Favorite, error)
	deleteFavoriteFn           func(ctx context.Context, userID, id uuid.UUID) error
	listJournalFn              func(ctx context.Context, userID uuid.UUID, filter domain.JournalFilter, page domain.Page) ([]domain.JournalEntry, int, error)
	getJournalEntryFn          func(ctx context.Context, userID, id uuid.UUID) (*domain.JournalEntry, error)
	createJournalEntryFn       func(ctx context.Context, userID uuid.UUID, in app.JournalInput) (*domain.JournalEntry, error)
	updateJournalEntryFn       func(ctx context.Context, userID, id uuid.UUID, patch app.JournalPatch) (*domain.JournalEntry, error)
	deleteJournalEntryFn       func(ctx context.Context, userID, id uuid.UUID) error
	listMedicationsFn          func(ctx context.Context, userID uuid.UUID, active *bool) ([]domain.Medication, error)
	createMedicationFn         func(ctx context.Context, userID uuid.UUID, in app.MedicationInput) (*domain.Medication, error)
	updateMedicationFn         func(ctx context.Context, userID, id uuid.UUID, patch app.MedicationPatch) (*domain.Medication, error)
	deleteMedicationFn         func(ctx context.Context, userID, id uuid.UUID) error
	plansFn                    func() []domain.Plan
	getSubscriptionFn          func(ctx context.Context, userID uuid.UUID) (*app.SubscriptionOverview, error)
	changePlanFn               func(ctx context.Context, userID uuid.UUID, plan domain.PlanName) (*domain.Subscription, error)
	cancelSubscriptionFn       func(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error)
	listSearchHistoryFn        func(ctx context.Context, userID uuid.UUID, page domain.Page) ([]domain.SearchHistory, int, error)
	deleteSearchHistoryFn      func(ctx context.Context, userID, id uuid.UUID) error
	clearSearchHistoryFn       func(ctx context.Context, userID uuid.UUID) (int64, error)
	checkInteractionsFn        func(ctx context.Context, userID uuid.UUID, in app.InteractionCheck) (*interactions.Report, error)
	submitContributionFn       func(ctx context.Context, userID uuid.UUID, in app.ContributionInput) (*domain.Contribution, error)
	listMyContributionsFn      func(ctx context.Context, userID uuid.UUID, page domain.Page) ([]domain.Contribution, int, error)
	listPendingContributionsFn func(ctx context.Context, moderatorID uuid.UUID, page domain.Page) ([]domain.Contribution, int, error)
	approveContributionFn      func(ctx context.Context, moderatorID, id uuid.UUID, a app.Approval) (*domain.Remedy, error)
	rejectContributionFn       func(ctx context.Context, moderatorID, id uuid.UUID, reason string) (*domain.Contribution, error)
	createUploadURLFn          func(ctx context.Context, userID uuid.UUID, contentType string) (*domain.UploadURL, error)
	catalogStatusFn            func(ctx context.Context) (app.CatalogStatus, error)
}

func (m *mockAppService) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, email, name, password)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, email, password)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.getUserFn != nil {
		return m.getUserFn(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockAppService) UpdateProfile(ctx context.Context, userID uuid.UUID, upd app.ProfileUpdate) (*domain.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, userID, upd)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if m.deleteAccountFn != nil {
		return m.deleteAccountFn(ctx, userID)
	}
	return errors.New("not implemented")
}

func (m *mockAppService) SearchRemedies(ctx context.Context, userID uuid.UUID, q app.RemedySearch, page domain.Page) (*domain.SearchResult, error) {
	if m.searchRemediesFn != nil {
		return m.searchRemediesFn(ctx, userID, q, page)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) GetRemedy(ctx context.Context, userID uuid.UUID, id string) (*domain.Remedy, error) {
	if m.getRemedyFn != nil {
		return m.getRemedyFn(ctx, userID, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) CompareRemedies(ctx context.Context, userID uuid.UUID, ids []string) ([]domain.Remedy, error) {
	if m.compareRemediesFn != nil {
		return m.compareRemediesFn(ctx, userID, ids)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) Categories(ctx context.Context) ([]domain.Category, error) {
	if m.categoriesFn != nil {
		return m.categoriesFn(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) ListFavorites(ctx context.Context, userID uuid.UUID, page domain.Page) ([]domain.Favorite, int, error) {
	if m.listFavoritesFn != nil {
		return m.listFavoritesFn(ctx, userID, page)
	}
	return nil, 0, errors.New("not implemented")
}

func (m *mockAppService) AddFavorite(ctx context.Context, userID uuid.UUID, remedyID, notes string) (*domain.Favorite, error) {
	if m.addFavoriteFn != nil {
		return m.addFavoriteFn(ctx, userID, remedyID, notes)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) UpdateFavorite(ctx context.Context, userID, id uuid.UUID, notes string) (*domain.Favorite, error) {
	if m.updateFavoriteFn != nil {
		return m.updateFavoriteFn(ctx, userID, id, notes)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) DeleteFavorite(ctx context.Context, userID, id uuid.UUID) error {
	if m.deleteFavoriteFn != nil {
		return m.deleteFavoriteFn(ctx, userID, id)
	}
	return errors.New("not implemented")
}

func (m *mockAppService) ListJournal(ctx context.Context, userID uuid.UUID, filter domain.JournalFilter, page domain.Page) ([]domain.JournalEntry, int, error) {
	if m.listJournalFn != nil {
		return m.listJournalFn(ctx, userID, filter, page)
	}
	return nil, 0, errors.New("not implemented")
}

func (m *mockAppService) GetJournalEntry(ctx context.Context, userID, id uuid.UUID) (*domain.JournalEntry, error) {
	if m.getJournalEntryFn != nil {
		return m.getJournalEntryFn(ctx, userID, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) CreateJournalEntry(ctx context.Context, userID uuid.UUID, in app.JournalInput) (*domain.JournalEntry, error) {
	if m.createJournalEntryFn != nil {
		return m.createJournalEntryFn(ctx, userID, in)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) UpdateJournalEntry(ctx context.Context, userID, id uuid.UUID, patch app.JournalPatch) (*domain.JournalEntry, error) {
	if m.updateJournalEntryFn != nil {
		return m.updateJournalEntryFn(ctx, userID, id, patch)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) DeleteJournalEntry(ctx context.Context, userID, id uuid.UUID) error {
	if m.deleteJournalEntryFn != nil {
		return m.deleteJournalEntryFn(ctx, userID, id)
	}
	return errors.New("not implemented")
}

func (m *mockAppService) ListMedications(ctx context.Context, userID uuid.UUID, active *bool) ([]domain.Medication, error) {
	if m.listMedicationsFn != nil {
		return m.listMedicationsFn(ctx, userID, active)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) CreateMedication(ctx context.Context, userID uuid.UUID, in app.MedicationInput) (*domain.Medication, error) {
	if m.createMedicationFn != nil {
		return m.createMedicationFn(ctx, userID, in)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) UpdateMedication(ctx context.Context, userID, id uuid.UUID, patch app.MedicationPatch) (*domain.Medication, error) {
	if m.updateMedicationFn != nil {
		return m.updateMedicationFn(ctx, userID, id, patch)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) DeleteMedication(ctx context.Context, userID, id uuid.UUID) error {
	if m.deleteMedicationFn != nil {
		return m.deleteMedicationFn(ctx, userID, id)
	}
	return errors.New("not implemented")
}

func (m *mockAppService) Plans() []domain.Plan {
	if m.plansFn != nil {
		return m.plansFn()
	}
	return domain.Plans()
}

func (m *mockAppService) GetSubscription(ctx context.Context, userID uuid.UUID) (*app.SubscriptionOverview, error) {
	if m.getSubscriptionFn != nil {
		return m.getSubscriptionFn(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) ChangePlan(ctx context.Context, userID uuid.UUID, plan domain.PlanName) (*domain.Subscription, error) {
	if m.changePlanFn != nil {
		return m.changePlanFn(ctx, userID, plan)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) CancelSubscription(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	if m.cancelSubscriptionFn != nil {
		return m.cancelSubscriptionFn(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) ListSearchHistory(ctx context.Context, userID uuid.UUID, page domain.Page) ([]domain.SearchHistory, int, error) {
	if m.listSearchHistoryFn != nil {
		return m.listSearchHistoryFn(ctx, userID, page)
	}
	return nil, 0, errors.New("not implemented")
}

func (m *mockAppService) DeleteSearchHistory(ctx context.Context, userID, id uuid.UUID) error {
	if m.deleteSearchHistoryFn != nil {
		return m.deleteSearchHistoryFn(ctx, userID, id)
	}
	return errors.New("not implemented")
}

func (m *mockAppService) ClearSearchHistory(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.clearSearchHistoryFn != nil {
		return m.clearSearchHistoryFn(ctx, userID)
	}
	return 0, errors.New("not implemented")
}

func (m *mockAppService) CheckInteractions(ctx context.Context, userID uuid.UUID, in app.InteractionCheck) (*interactions.Report, error) {
	if m.checkInteractionsFn != nil {
		return m.checkInteractionsFn(ctx, userID, in)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) SubmitContribution(ctx context.Context, userID uuid.UUID, in app.ContributionInput) (*domain.Contribution, error) {
	if m.submitContributionFn != nil {
		return m.submitContributionFn(ctx, userID, in)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) ListMyContributions(ctx context.Context, userID uuid.UUID, page domain.Page) ([]domain.Contribution, int, error) {
	if m.listMyContributionsFn != nil {
		return m.listMyContributionsFn(ctx, userID, page)
	}
	return nil, 0, errors.New("not implemented")
}

func (m *mockAppService) ListPendingContributions(ctx context.Context, moderatorID uuid.UUID, page domain.Page) ([]domain.Contribution, int, error) {
	if m.listPendingContributionsFn != nil {
		return m.listPendingContributionsFn(ctx, moderatorID, page)
	}
	return nil, 0, errors.New("not implemented")
}

func (m *mockAppService) ApproveContribution(ctx context.Context, moderatorID, id uuid.UUID, a app.Approval) (*domain.Remedy, error) {
	if m.approveContributionFn != nil {
		return m.approveContributionFn(ctx, moderatorID, id, a)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) RejectContribution(ctx context.Context, moderatorID, id uuid.UUID, reason string) (*domain.Contribution, error) {
	if m.rejectContributionFn != nil {
		return m.rejectContributionFn(ctx, moderatorID, id, reason)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) CreateUploadURL(ctx context.Context, userID uuid.UUID, contentType string) (*domain.UploadURL, error) {
	if m.createUploadURLFn != nil {
		return m.createUploadURLFn(ctx, userID, contentType)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) CatalogStatus(ctx context.Context) (app.CatalogStatus, error) {
	if m.catalogStatusFn != nil {
		return m.catalogStatusFn(ctx)
	}
	return app.CatalogStatus{InteractionPairs: 42, Version: "test"}, nil
}

// --- Test helpers ---

const (
	testOrigin    = "https://app.remedyhub.test"
	testUserAgent = "remedyhub-test/1.0"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type testSetup struct {
	cfg  *config.Config
	deps Deps
}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:             "test",
		Port:               "0",
		SessionSecret:      "test-secret-key-32-bytes-long!!!",
		SessionMaxAge:      time.Hour,
		JWTSecret:          "test-jwt-secret-32-bytes-long!!!",
		JWTTTL:             time.Hour,
		CORSAllowedOrigins: []string{testOrigin},
		BlockedUserAgents:  []string{"badbot", "scrapy"},
		RateLimitRPS:       1000,
		RateLimitBurst:     1000,
		AuthRateLimitRPS:   1000,
		AuthRateLimitBurst: 1000,
	}
}

func newTestServer(t *testing.T, app appService, opts ...func(*testSetup)) *Server {
	t.Helper()

	setup := &testSetup{
		cfg:  testConfig(),
		deps: Deps{Clock: clockwork.NewFakeClockAt(testNow)},
	}
	for _, opt := range opts {
		opt(setup)
	}
	return NewServer(setup.cfg, app, setup.deps)
}

func withConfig(fn func(*config.Config)) func(*testSetup) {
	return func(s *testSetup) {
		fn(s.cfg)
	}
}

func withHealthChecks(checks ...HealthCheck) func(*testSetup) {
	return func(s *testSetup) {
		s.deps.HealthChecks = checks
	}
}

// callHandler wraps a handler with error middleware, matching production behavior
func callHandler(handler echo.HandlerFunc, c echo.Context) error {
	return ErrorHandlingMiddleware(true, nil)(handler)(c)
}

// userWith returns a mock that knows exactly one user.
func userWith(user *domain.User) *mockAppService {
	return &mockAppService{
		getUserFn: func(_ context.Context, id uuid.UUID) (*domain.User, error) {
			if id == user.ID {
				return user, nil
			}
			return nil, domain.ErrUserNotFound
		},
	}
}

func newTestUser(role domain.Role) *domain.User {
	return &domain.User{
		ID:        uuid.New(),
		Email:     "ada@example.com",
		Name:      "Ada",
		Role:      role,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
}

func newRequest(method, path, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("User-Agent", testUserAgent)
	return req
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func withBearer(t *testing.T, srv *Server, req *http.Request, userID uuid.UUID) *http.Request {
	t.Helper()
	token, _, err := srv.tokens.Issue(userID)
	require.NoError(t, err)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	return req
}

// sessionCookie returns a signed session cookie for the user.
func sessionCookie(t *testing.T, srv *Server, userID uuid.UUID) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	setSessionUserID(t, srv, req, rec, userID)

	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionName {
			return c
		}
	}
	t.Fatal("session cookie not written")
	return nil
}

func setSessionUserID(t *testing.T, srv *Server, req *http.Request, rec *httptest.ResponseRecorder, userID uuid.UUID) {
	t.Helper()
	session, err := srv.sessionStore.Get(req, sessionName)
	require.NoError(t, err)
	session.Values[sessionKeyUserID] = userID.String()
	require.NoError(t, session.Save(req, rec))
}

type testEnvelope struct {
	Success  bool            `json:"success"`
	Data     json.RawMessage `json:"data"`
	Metadata json.RawMessage `json:"metadata"`
	Error    struct {
		Code       string         `json:"code"`
		Message    string         `json:"message"`
		StatusCode int            `json:"statusCode"`
		Details    map[string]any `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.True(t, env.Success, rec.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

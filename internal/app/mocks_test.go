package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pscheid92/remedyhub/internal/domain"
)

// --- Mock implementations ---

type mockUserRepo struct {
	createFn     func(ctx context.Context, user *domain.User, sub *domain.Subscription) error
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	updateFn     func(ctx context.Context, user *domain.User) error
	deleteFn     func(ctx context.Context, id uuid.UUID) error
	setRoleFn    func(ctx context.Context, email string, role domain.Role) (*domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User, sub *domain.Subscription) error {
	if m.createFn != nil {
		return m.createFn(ctx, user, sub)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockUserRepo) SetRole(ctx context.Context, email string, role domain.Role) (*domain.User, error) {
	if m.setRoleFn != nil {
		return m.setRoleFn(ctx, email, role)
	}
	return nil, fmt.Errorf("not implemented")
}

type mockSubscriptionRepo struct {
	getByUserIDFn func(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error)
	upsertFn      func(ctx context.Context, sub *domain.Subscription) error
}

func (m *mockSubscriptionRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	if m.getByUserIDFn != nil {
		return m.getByUserIDFn(ctx, userID)
	}
	return nil, domain.ErrSubscriptionNotFound
}

func (m *mockSubscriptionRepo) Upsert(ctx context.Context, sub *domain.Subscription) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, sub)
	}
	return nil
}

type mockRemedyRepo struct {
	searchFn     func(ctx context.Context, filter domain.RemedyFilter, page domain.Page) (*domain.SearchResult, error)
	getByIDFn    func(ctx context.Context, id string) (*domain.Remedy, error)
	getManyFn    func(ctx context.Context, ids []string) ([]domain.Remedy, error)
	categoriesFn func(ctx context.Context) ([]domain.Category, error)
	upsertFn     func(ctx context.Context, remedy *domain.Remedy) error
}

func (m *mockRemedyRepo) Search(ctx context.Context, filter domain.RemedyFilter, page domain.Page) (*domain.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, filter, page)
	}
	return &domain.SearchResult{}, nil
}

func (m *mockRemedyRepo) GetByID(ctx context.Context, id string) (*domain.Remedy, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrRemedyNotFound
}

func (m *mockRemedyRepo) GetMany(ctx context.Context, ids []string) ([]domain.Remedy, error) {
	if m.getManyFn != nil {
		return m.getManyFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockRemedyRepo) Categories(ctx context.Context) ([]domain.Category, error) {
	if m.categoriesFn != nil {
		return m.categoriesFn(ctx)
	}
	return nil, nil
}

func (m *mockRemedyRepo) Upsert(ctx context.Context, remedy *domain.Remedy) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, remedy)
	}
	return nil
}

type mockFavoriteRepo struct {
	listFn   func(ctx context.Context, userID uuid.UUID, page domain.Page) ([]domain.Favorite, int, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*domain.Favorite, error)
	countFn  func(ctx context.Context, userID uuid.UUID) (int, error)
	createFn func(ctx context.Context, fav *domain.Favorite) error
	updateFn func(ctx context.Context, fav *domain.Favorite) error
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (m *mockFavoriteRepo) List(ctx context.Context, userID uuid.UUID, page domain.Page) ([]domain.Favorite, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, page)
	}
	return nil, 0, nil
}

func (m *mockFavoriteRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Favorite, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, domain.ErrFavoriteNotFound
}

func (m *mockFavoriteRepo) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, userID)
	}
	return 0, nil
}

func (m *mockFavoriteRepo) Create(ctx context.Context, fav *domain.Favorite) error {
	if m.createFn != nil {
		return m.createFn(ctx, fav)
	}
	return nil
}

func (m *mockFavoriteRepo) Update(ctx context.Context, fav *domain.Favorite) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, fav)
	}
	return nil
}

func (m *mockFavoriteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockJournalRepo struct {
	listFn              func(ctx context.Context, userID uuid.UUID, filter domain.JournalFilter, page domain.Page) ([]domain.JournalEntry, int, error)
	getFn               func(ctx context.Context, id uuid.UUID) (*domain.JournalEntry, error)
	countCreatedSinceFn func(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
	createFn            func(ctx context.Context, entry *domain.JournalEntry) error
	updateFn            func(ctx context.Context, entry *domain.JournalEntry) error
	deleteFn            func(ctx context.Context, id uuid.UUID) error
}

func (m *mockJournalRepo) List(ctx context.Context, userID uuid.UUID, filter domain.JournalFilter, page domain.Page) ([]domain.JournalEntry, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, filter, page)
	}
	return nil, 0, nil
}

func (m *mockJournalRepo) Get(ctx context.Context, id uuid.UUID) (*domain.JournalEntry, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, domain.ErrJournalEntryNotFound
}

func (m *mockJournalRepo) CountCreatedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	if m.countCreatedSinceFn != nil {
		return m.countCreatedSinceFn(ctx, userID, since)
	}
	return 0, nil
}

func (m *mockJournalRepo) Create(ctx context.Context, entry *domain.JournalEntry) error {
	if m.createFn != nil {
		return m.createFn(ctx, entry)
	}
	return nil
}

func (m *mockJournalRepo) Update(ctx context.Context, entry *domain.JournalEntry) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, entry)
	}
	return nil
}

func (m *mockJournalRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockMedicationRepo struct {
	listFn   func(ctx context.Context, userID uuid.UUID, active *bool) ([]domain.Medication, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*domain.Medication, error)
	countFn  func(ctx context.Context, userID uuid.UUID) (int, error)
	createFn func(ctx context.Context, med *domain.Medication) error
	updateFn func(ctx context.Context, med *domain.Medication) error
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (m *mockMedicationRepo) List(ctx context.Context, userID uuid.UUID, active *bool) ([]domain.Medication, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, active)
	}
	return nil, nil
}

func (m *mockMedicationRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Medication, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, domain.ErrMedicationNotFound
}

func (m *mockMedicationRepo) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, userID)
	}
	return 0, nil
}

func (m *mockMedicationRepo) Create(ctx context.Context, med *domain.Medication) error {
	if m.createFn != nil {
		return m.createFn(ctx, med)
	}
	return nil
}

func (m *mockMedicationRepo) Update(ctx context.Context, med *domain.Medication) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, med)
	}
	return nil
}

func (m *mockMedicationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockHistoryRepo struct {
	recordFn func(ctx context.Context, entry *domain.SearchHistory) error
	listFn   func(ctx context.Context, userID uuid.UUID, page domain.Page) ([]domain.SearchHistory, int, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*domain.SearchHistory, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
	clearFn  func(ctx context.Context, userID uuid.UUID) (int64, error)
}

func (m *mockHistoryRepo) Record(ctx context.Context, entry *domain.SearchHistory) error {
	if m.recordFn != nil {
		return m.recordFn(ctx, entry)
	}
	return nil
}

func (m *mockHistoryRepo) List(ctx context.Context, userID uuid.UUID, page domain.Page) ([]domain.SearchHistory, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, page)
	}
	return nil, 0, nil
}

func (m *mockHistoryRepo) Get(ctx context.Context, id uuid.UUID) (*domain.SearchHistory, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, domain.ErrSearchHistoryNotFound
}

func (m *mockHistoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockHistoryRepo) Clear(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.clearFn != nil {
		return m.clearFn(ctx, userID)
	}
	return 0, nil
}

type mockInteractionRepo struct {
	allFn    func(ctx context.Context) ([]domain.Interaction, error)
	upsertFn func(ctx context.Context, in *domain.Interaction) error
}

func (m *mockInteractionRepo) All(ctx context.Context) ([]domain.Interaction, error) {
	if m.allFn != nil {
		return m.allFn(ctx)
	}
	return nil, nil
}

func (m *mockInteractionRepo) Upsert(ctx context.Context, in *domain.Interaction) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, in)
	}
	return nil
}

type mockContributionRepo struct {
	createFn      func(ctx context.Context, c *domain.Contribution) error
	getFn         func(ctx context.Context, id uuid.UUID) (*domain.Contribution, error)
	listByUserFn  func(ctx context.Context, userID uuid.UUID, page domain.Page) ([]domain.Contribution, int, error)
	listPendingFn func(ctx context.Context, page domain.Page) ([]domain.Contribution, int, error)
	approveFn     func(ctx context.Context, id, reviewerID uuid.UUID, remedy *domain.Remedy, reviewedAt time.Time) error
	rejectFn      func(ctx context.Context, id, reviewerID uuid.UUID, reason string, reviewedAt time.Time) error
}

func (m *mockContributionRepo) Create(ctx context.Context, c *domain.Contribution) error {
	if m.createFn != nil {
		return m.createFn(ctx, c)
	}
	return nil
}

func (m *mockContributionRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Contribution, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, domain.ErrContributionNotFound
}

func (m *mockContributionRepo) ListByUser(ctx context.Context, userID uuid.UUID, page domain.Page) ([]domain.Contribution, int, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID, page)
	}
	return nil, 0, nil
}

func (m *mockContributionRepo) ListPending(ctx context.Context, page domain.Page) ([]domain.Contribution, int, error) {
	if m.listPendingFn != nil {
		return m.listPendingFn(ctx, page)
	}
	return nil, 0, nil
}

func (m *mockContributionRepo) Approve(ctx context.Context, id, reviewerID uuid.UUID, remedy *domain.Remedy, reviewedAt time.Time) error {
	if m.approveFn != nil {
		return m.approveFn(ctx, id, reviewerID, remedy, reviewedAt)
	}
	return nil
}

func (m *mockContributionRepo) Reject(ctx context.Context, id, reviewerID uuid.UUID, reason string, reviewedAt time.Time) error {
	if m.rejectFn != nil {
		return m.rejectFn(ctx, id, reviewerID, reason, reviewedAt)
	}
	return nil
}

type mockUsageCounter struct {
	consumeFn func(ctx context.Context, kind domain.UsageKind, userID uuid.UUID, day time.Time, limit int) (bool, error)
	usedFn    func(ctx context.Context, kind domain.UsageKind, userID uuid.UUID, day time.Time) (int, error)
}

func (m *mockUsageCounter) Consume(ctx context.Context, kind domain.UsageKind, userID uuid.UUID, day time.Time, limit int) (bool, error) {
	if m.consumeFn != nil {
		return m.consumeFn(ctx, kind, userID, day, limit)
	}
	return true, nil
}

func (m *mockUsageCounter) Used(ctx context.Context, kind domain.UsageKind, userID uuid.UUID, day time.Time) (int, error) {
	if m.usedFn != nil {
		return m.usedFn(ctx, kind, userID, day)
	}
	return 0, nil
}

type mockSearchCache struct {
	getSearchFn func(ctx context.Context, key string) (*domain.SearchResult, bool, error)
	setSearchFn func(ctx context.Context, key string, result *domain.SearchResult, ttl time.Duration) error
}

func (m *mockSearchCache) GetSearch(ctx context.Context, key string) (*domain.SearchResult, bool, error) {
	if m.getSearchFn != nil {
		return m.getSearchFn(ctx, key)
	}
	return nil, false, nil
}

func (m *mockSearchCache) SetSearch(ctx context.Context, key string, result *domain.SearchResult, ttl time.Duration) error {
	if m.setSearchFn != nil {
		return m.setSearchFn(ctx, key, result, ttl)
	}
	return nil
}

type mockPresigner struct {
	presignUploadFn func(ctx context.Context, key, contentType string, ttl time.Duration) (*domain.UploadURL, error)
}

func (m *mockPresigner) PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (*domain.UploadURL, error) {
	if m.presignUploadFn != nil {
		return m.presignUploadFn(ctx, key, contentType, ttl)
	}
	return &domain.UploadURL{Key: key, Method: "PUT"}, nil
}

type mockNotifier struct {
	publishFn func(ctx context.Context) error
	calls     int
}

func (m *mockNotifier) PublishCatalogChanged(ctx context.Context) error {
	m.calls++
	if m.publishFn != nil {
		return m.publishFn(ctx)
	}
	return nil
}

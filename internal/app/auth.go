package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/pscheid92/remedyhub/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// ProfileUpdate carries the profile fields to change; nil fields stay as they are.
type ProfileUpdate struct {
	Name  *string
	Email *string
}

// Register creates an account on the free plan.
func (s *Service) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, domain.ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.clock.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        normalizeEmail(email),
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repos.Users.Create(ctx, user, domain.NewFreeSubscription(user.ID, now)); err != nil {
		return nil, err
	}

	if s.opts.UsageMetrics != nil {
		s.opts.UsageMetrics.Registrations.Inc()
	}
	slog.InfoContext(ctx, "User registered", "user_id", user.ID.String())
	return user, nil
}

// Authenticate checks credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller, in result and in timing.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repos.Users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyPasswordHash(), []byte(password))
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) dummyPasswordHash() []byte {
	s.dummyHashOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("remedyhub-timing-equalizer"), s.opts.BcryptCost)
	})
	return s.dummyHash
}

// GetUser returns the user by ID.
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.repos.Users.GetByID(ctx, userID)
}

// UpdateProfile changes the user's name and/or email.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, upd ProfileUpdate) (*domain.User, error) {
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		user.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Email != nil {
		user.Email = normalizeEmail(*upd.Email)
	}
	user.UpdatedAt = s.clock.Now()

	if err := s.repos.Users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user and, through cascading deletes, all their data.
func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if err := s.repos.Users.Delete(ctx, userID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "User deleted account", "user_id", userID.String())
	return nil
}

// PromoteUser sets the role of the user with the given email.
func (s *Service) PromoteUser(ctx context.Context, email string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	user, err := s.repos.Users.SetRole(ctx, normalizeEmail(email), role)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "User role changed", "user_id", user.ID.String(), "role", role)
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

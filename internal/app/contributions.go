package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/pscheid92/remedyhub/internal/domain"
	"github.com/pscheid92/remedyhub/internal/validation"
)

// ContributionInput is a user-submitted remedy.
type ContributionInput struct {
	Name        string
	Description string
	Category    string
	Benefits    []string
	Sources     []string
	ImageKey    string
}

// Approval overrides what approving a contribution creates. An empty RemedyID
// is derived from the contribution name; an empty Evidence means limited.
type Approval struct {
	RemedyID    string
	Evidence    domain.Evidence
	PremiumOnly bool
}

var uploadExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// SubmitContribution queues a remedy for moderation.
func (s *Service) SubmitContribution(ctx context.Context, userID uuid.UUID, in ContributionInput) (*domain.Contribution, error) {
	plan, err := s.planFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := requireFeature(plan, domain.FeatureContributions); err != nil {
		return nil, err
	}
	if in.ImageKey != "" && !strings.HasPrefix(in.ImageKey, imageKeyPrefix(userID)) {
		return nil, domain.ErrInvalidImageKey
	}

	c := &domain.Contribution{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.ToLower(strings.TrimSpace(in.Category)),
		Benefits:    in.Benefits,
		Sources:     in.Sources,
		ImageKey:    in.ImageKey,
		Status:      domain.ContributionPending,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repos.Contributions.Create(ctx, c); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Contribution submitted", "user_id", userID.String(), "contribution_id", c.ID.String())
	return c, nil
}

func (s *Service) ListMyContributions(ctx context.Context, userID uuid.UUID, page domain.Page) ([]domain.Contribution, int, error) {
	return s.repos.Contributions.ListByUser(ctx, userID, page)
}

// ListPendingContributions returns the moderation queue.
func (s *Service) ListPendingContributions(ctx context.Context, moderatorID uuid.UUID, page domain.Page) ([]domain.Contribution, int, error) {
	if _, err := s.requireModerator(ctx, moderatorID); err != nil {
		return nil, 0, err
	}
	return s.repos.Contributions.ListPending(ctx, page)
}

// ApproveContribution publishes the contribution as a catalog remedy.
func (s *Service) ApproveContribution(ctx context.Context, moderatorID, id uuid.UUID, a Approval) (*domain.Remedy, error) {
	if _, err := s.requireModerator(ctx, moderatorID); err != nil {
		return nil, err
	}

	c, err := s.repos.Contributions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != domain.ContributionPending {
		return nil, domain.ErrContributionReviewed
	}

	remedyID := a.RemedyID
	if remedyID == "" {
		remedyID = validation.Slugify(c.Name)
	}
	if !validation.ValidRemedyID(remedyID) {
		return nil, domain.ErrInvalidRemedyID
	}
	evidence := a.Evidence
	if evidence == "" {
		evidence = domain.EvidenceLimited
	}

	now := s.clock.Now()
	remedy := &domain.Remedy{
		ID:          remedyID,
		Name:        c.Name,
		Description: c.Description,
		Category:    c.Category,
		Benefits:    c.Benefits,
		Evidence:    evidence,
		PremiumOnly: a.PremiumOnly,
		CreatedAt:   now,
	}
	if err := s.repos.Contributions.Approve(ctx, id, moderatorID, remedy, now); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Contribution approved",
		"contribution_id", id.String(), "remedy_id", remedyID, "moderator_id", moderatorID.String())

	// New remedies become addressable by name in interaction checks.
	if _, err := s.reloadChecker(ctx); err != nil {
		slog.WarnContext(ctx, "Failed to reload interaction checker", "error", err)
	}
	s.notifyCatalogChanged(ctx)
	return remedy, nil
}

// RejectContribution closes the contribution with a reason shown to its author.
func (s *Service) RejectContribution(ctx context.Context, moderatorID, id uuid.UUID, reason string) (*domain.Contribution, error) {
	if _, err := s.requireModerator(ctx, moderatorID); err != nil {
		return nil, err
	}

	if err := s.repos.Contributions.Reject(ctx, id, moderatorID, strings.TrimSpace(reason), s.clock.Now()); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Contribution rejected", "contribution_id", id.String(), "moderator_id", moderatorID.String())
	return s.repos.Contributions.Get(ctx, id)
}

// CreateUploadURL issues a presigned URL for a contribution image.
func (s *Service) CreateUploadURL(ctx context.Context, userID uuid.UUID, contentType string) (*domain.UploadURL, error) {
	if s.opts.Uploads == nil {
		return nil, domain.ErrUploadsDisabled
	}

	plan, err := s.planFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := requireFeature(plan, domain.FeatureContributions); err != nil {
		return nil, err
	}

	ext, ok := uploadExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}
	key := imageKeyPrefix(userID) + uuid.NewString() + ext
	return s.opts.Uploads.PresignUpload(ctx, key, contentType, s.opts.UploadURLTTL)
}

func imageKeyPrefix(userID uuid.UUID) string {
	return contributionImagePrefix + userID.String() + "/"
}

package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/remedyhub/internal/app"
	"github.com/pscheid92/remedyhub/internal/domain"
	"github.com/pscheid92/remedyhub/internal/validation"
)

func (s *Server) registerContributionRoutes(api *echo.Group) {
	contributions := api.Group("/contributions", s.requireAuth)
	contributions.GET("", s.handleListMyContributions)
	contributions.POST("", s.handleSubmitContribution)
	contributions.POST("/upload-url", s.handleCreateUploadURL)
	contributions.GET("/pending", s.handleListPendingContributions, s.requireModerator)
	contributions.POST("/:id/approve", s.handleApproveContribution, s.requireModerator)
	contributions.POST("/:id/reject", s.handleRejectContribution, s.requireModerator)
}

func (s *Server) handleListMyContributions(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	items, total, err := s.app.ListMyContributions(c.Request().Context(), currentUserID(c), toDomainPage(page, limit))
	if err != nil {
		return err
	}
	return paginated(c, items, page, limit, total)
}

func (s *Server) handleSubmitContribution(c echo.Context) error {
	var req validation.CreateContributionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	contribution, err := s.app.SubmitContribution(c.Request().Context(), currentUserID(c), app.ContributionInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Benefits:    req.Benefits,
		Sources:     req.Sources,
		ImageKey:    req.ImageKey,
	})
	if err != nil {
		return err
	}
	return Success(c, http.StatusCreated, contribution)
}

func (s *Server) handleCreateUploadURL(c echo.Context) error {
	var req validation.UploadURLRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	upload, err := s.app.CreateUploadURL(c.Request().Context(), currentUserID(c), req.ContentType)
	if err != nil {
		return err
	}
	return Success(c, http.StatusCreated, upload)
}

func (s *Server) handleListPendingContributions(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	items, total, err := s.app.ListPendingContributions(c.Request().Context(), currentUserID(c), toDomainPage(page, limit))
	if err != nil {
		return err
	}
	return paginated(c, items, page, limit, total)
}

func (s *Server) handleApproveContribution(c echo.Context) error {
	id, err := validation.ParseUUID("id", c.Param("id"))
	if err != nil {
		return err
	}
	var req validation.ApproveContributionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	moderatorID := currentUserID(c)
	remedy, err := s.app.ApproveContribution(c.Request().Context(), moderatorID, id, app.Approval{
		RemedyID:    req.RemedyID,
		Evidence:    domain.Evidence(req.Evidence),
		PremiumOnly: req.PremiumOnly,
	})
	if err != nil {
		return err
	}

	slog.InfoContext(c.Request().Context(), "Contribution approved",
		"contribution_id", id, "moderator_id", moderatorID, "remedy_id", remedy.ID)
	return Success(c, http.StatusCreated, remedy)
}

func (s *Server) handleRejectContribution(c echo.Context) error {
	id, err := validation.ParseUUID("id", c.Param("id"))
	if err != nil {
		return err
	}
	var req validation.RejectContributionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	moderatorID := currentUserID(c)
	contribution, err := s.app.RejectContribution(c.Request().Context(), moderatorID, id, req.Reason)
	if err != nil {
		return err
	}

	slog.InfoContext(c.Request().Context(), "Contribution rejected", "contribution_id", id, "moderator_id", moderatorID)
	return Success(c, http.StatusOK, contribution)
}

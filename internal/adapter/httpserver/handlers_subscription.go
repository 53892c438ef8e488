package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/remedyhub/internal/domain"
	"github.com/pscheid92/remedyhub/internal/validation"
)

func (s *Server) registerSubscriptionRoutes(api *echo.Group) {
	api.GET("/plans", s.handleListPlans)

	sub := api.Group("/subscription", s.requireAuth)
	sub.GET("", s.handleGetSubscription)
	sub.PUT("", s.handleChangePlan)
	sub.DELETE("", s.handleCancelSubscription)
}

func (s *Server) handleListPlans(c echo.Context) error {
	return Success(c, http.StatusOK, s.app.Plans())
}

func (s *Server) handleGetSubscription(c echo.Context) error {
	overview, err := s.app.GetSubscription(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}
	return Success(c, http.StatusOK, overview)
}

func (s *Server) handleChangePlan(c echo.Context) error {
	var req validation.ChangePlanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	userID := currentUserID(c)
	sub, err := s.app.ChangePlan(c.Request().Context(), userID, domain.PlanName(req.Plan))
	if err != nil {
		return err
	}

	slog.InfoContext(c.Request().Context(), "Plan changed", "user_id", userID, "plan", sub.Plan)
	return Success(c, http.StatusOK, sub)
}

func (s *Server) handleCancelSubscription(c echo.Context) error {
	userID := currentUserID(c)
	sub, err := s.app.CancelSubscription(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	slog.InfoContext(c.Request().Context(), "Subscription canceled", "user_id", userID, "period_end", sub.CurrentPeriodEnd)
	return Success(c, http.StatusOK, sub)
}

package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/remedyhub/internal/app"
	"github.com/pscheid92/remedyhub/internal/validation"
)

func (s *Server) registerInteractionRoutes(api *echo.Group) {
	api.POST("/interactions/check", s.handleCheckInteractions, s.requireAuth)
}

func (s *Server) handleCheckInteractions(c echo.Context) error {
	var req validation.InteractionCheckRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	report, err := s.app.CheckInteractions(c.Request().Context(), currentUserID(c), app.InteractionCheck{
		Remedies:             req.Remedies,
		Medications:          req.Medications,
		IncludeMyMedications: req.IncludeMyMedications,
	})
	if err != nil {
		return err
	}
	return Success(c, http.StatusOK, report)
}

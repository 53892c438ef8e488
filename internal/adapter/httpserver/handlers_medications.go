package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/remedyhub/internal/app"
	"github.com/pscheid92/remedyhub/internal/domain"
	apperrors "github.com/pscheid92/remedyhub/internal/platform/errors"
	"github.com/pscheid92/remedyhub/internal/validation"
)

func (s *Server) registerMedicationRoutes(api *echo.Group) {
	medications := api.Group("/medications", s.requireAuth)
	medications.GET("", s.handleListMedications)
	medications.POST("", s.handleCreateMedication)
	medications.PUT("/:id", s.handleUpdateMedication)
	medications.DELETE("/:id", s.handleDeleteMedication)
}

func (s *Server) handleListMedications(c echo.Context) error {
	var active *bool
	if raw := c.QueryParam("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return apperrors.InvalidInput("active must be true or false").WithDetail("parameter", "active")
		}
		active = &v
	}

	meds, err := s.app.ListMedications(c.Request().Context(), currentUserID(c), active)
	if err != nil {
		return err
	}
	if meds == nil {
		meds = []domain.Medication{}
	}
	return Success(c, http.StatusOK, meds)
}

func (s *Server) handleCreateMedication(c echo.Context) error {
	var req validation.CreateMedicationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	med, err := s.app.CreateMedication(c.Request().Context(), currentUserID(c), app.MedicationInput{
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		Notes:     req.Notes,
		Active:    req.Active,
		StartedAt: req.StartedAt,
	})
	if err != nil {
		return err
	}
	return Success(c, http.StatusCreated, med)
}

func (s *Server) handleUpdateMedication(c echo.Context) error {
	id, err := validation.ParseUUID("id", c.Param("id"))
	if err != nil {
		return err
	}
	var req validation.UpdateMedicationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	med, err := s.app.UpdateMedication(c.Request().Context(), currentUserID(c), id, app.MedicationPatch{
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		Notes:     req.Notes,
		Active:    req.Active,
		StartedAt: req.StartedAt,
	})
	if err != nil {
		return err
	}
	return Success(c, http.StatusOK, med)
}

func (s *Server) handleDeleteMedication(c echo.Context) error {
	id, err := validation.ParseUUID("id", c.Param("id"))
	if err != nil {
		return err
	}

	if err := s.app.DeleteMedication(c.Request().Context(), currentUserID(c), id); err != nil {
		return err
	}
	return Success(c, http.StatusOK, deletedResponse{Deleted: true, ID: id.String()})
}

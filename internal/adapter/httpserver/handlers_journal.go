package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/remedyhub/internal/app"
	"github.com/pscheid92/remedyhub/internal/domain"
	apperrors "github.com/pscheid92/remedyhub/internal/platform/errors"
	"github.com/pscheid92/remedyhub/internal/validation"
)

func (s *Server) registerJournalRoutes(api *echo.Group) {
	journal := api.Group("/journal", s.requireAuth)
	journal.GET("", s.handleListJournal)
	journal.POST("", s.handleCreateJournalEntry)
	journal.GET("/:id", s.handleGetJournalEntry)
	journal.PUT("/:id", s.handleUpdateJournalEntry)
	journal.DELETE("/:id", s.handleDeleteJournalEntry)
}

func (s *Server) handleListJournal(c echo.Context) error {
	filter, err := journalFilter(c)
	if err != nil {
		return err
	}
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	entries, total, err := s.app.ListJournal(c.Request().Context(), currentUserID(c), filter, toDomainPage(page, limit))
	if err != nil {
		return err
	}
	return paginated(c, entries, page, limit, total)
}

// journalFilter reads remedyId, from and to. Dates accept RFC 3339 or
// YYYY-MM-DD. The upper bound is exclusive, so a bare to date covers that
// whole day.
func journalFilter(c echo.Context) (domain.JournalFilter, error) {
	filter := domain.JournalFilter{RemedyID: c.QueryParam("remedyId")}
	if filter.RemedyID != "" && !validation.ValidRemedyID(filter.RemedyID) {
		return filter, apperrors.InvalidInput("invalid remedyId").WithDetail("parameter", "remedyId")
	}

	var err error
	if filter.From, err = queryTime(c, "from", false); err != nil {
		return filter, err
	}
	if filter.To, err = queryTime(c, "to", true); err != nil {
		return filter, err
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return filter, apperrors.InvalidInput("to must not be before from")
	}
	return filter, nil
}

func queryTime(c echo.Context, name string, upper bool) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		if upper {
			t = t.AddDate(0, 0, 1)
		}
		return &t, nil
	}
	return nil, apperrors.InvalidInput("invalid " + name + ": expected RFC 3339 timestamp or YYYY-MM-DD").
		WithDetail("parameter", name)
}

func (s *Server) handleGetJournalEntry(c echo.Context) error {
	id, err := validation.ParseUUID("id", c.Param("id"))
	if err != nil {
		return err
	}

	entry, err := s.app.GetJournalEntry(c.Request().Context(), currentUserID(c), id)
	if err != nil {
		return err
	}
	return Success(c, http.StatusOK, entry)
}

func (s *Server) handleCreateJournalEntry(c echo.Context) error {
	var req validation.CreateJournalEntryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := app.JournalInput{
		RemedyID:      req.RemedyID,
		Dosage:        req.Dosage,
		Effectiveness: req.Effectiveness,
		Mood:          req.Mood,
		SideEffects:   req.SideEffects,
		Notes:         req.Notes,
	}
	if req.TakenAt != nil {
		in.TakenAt = *req.TakenAt
	}

	entry, err := s.app.CreateJournalEntry(c.Request().Context(), currentUserID(c), in)
	if err != nil {
		return err
	}
	return Success(c, http.StatusCreated, entry)
}

func (s *Server) handleUpdateJournalEntry(c echo.Context) error {
	id, err := validation.ParseUUID("id", c.Param("id"))
	if err != nil {
		return err
	}
	var req validation.UpdateJournalEntryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	entry, err := s.app.UpdateJournalEntry(c.Request().Context(), currentUserID(c), id, app.JournalPatch{
		Dosage:        req.Dosage,
		TakenAt:       req.TakenAt,
		Effectiveness: req.Effectiveness,
		Mood:          req.Mood,
		SideEffects:   req.SideEffects,
		Notes:         req.Notes,
	})
	if err != nil {
		return err
	}
	return Success(c, http.StatusOK, entry)
}

func (s *Server) handleDeleteJournalEntry(c echo.Context) error {
	id, err := validation.ParseUUID("id", c.Param("id"))
	if err != nil {
		return err
	}

	if err := s.app.DeleteJournalEntry(c.Request().Context(), currentUserID(c), id); err != nil {
		return err
	}
	return Success(c, http.StatusOK, deletedResponse{Deleted: true, ID: id.String()})
}

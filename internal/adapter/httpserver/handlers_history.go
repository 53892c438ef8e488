package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/remedyhub/internal/validation"
)

func (s *Server) registerHistoryRoutes(api *echo.Group) {
	history := api.Group("/search-history", s.requireAuth)
	history.GET("", s.handleListSearchHistory)
	history.DELETE("", s.handleClearSearchHistory)
	history.DELETE("/:id", s.handleDeleteSearchHistory)
}

func (s *Server) handleListSearchHistory(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	entries, total, err := s.app.ListSearchHistory(c.Request().Context(), currentUserID(c), toDomainPage(page, limit))
	if err != nil {
		return err
	}
	return paginated(c, entries, page, limit, total)
}

func (s *Server) handleDeleteSearchHistory(c echo.Context) error {
	id, err := validation.ParseUUID("id", c.Param("id"))
	if err != nil {
		return err
	}

	if err := s.app.DeleteSearchHistory(c.Request().Context(), currentUserID(c), id); err != nil {
		return err
	}
	return Success(c, http.StatusOK, deletedResponse{Deleted: true, ID: id.String()})
}

func (s *Server) handleClearSearchHistory(c echo.Context) error {
	n, err := s.app.ClearSearchHistory(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}
	return Success(c, http.StatusOK, map[string]any{"deleted": true, "count": n})
}

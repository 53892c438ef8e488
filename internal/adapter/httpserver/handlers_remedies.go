package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/remedyhub/internal/app"
	apperrors "github.com/pscheid92/remedyhub/internal/platform/errors"
	"github.com/pscheid92/remedyhub/internal/validation"
)

func (s *Server) registerRemedyRoutes(api *echo.Group) {
	remedies := api.Group("/remedies")
	remedies.GET("", s.handleSearchRemedies, s.optionalAuth)
	remedies.GET("/categories", s.handleCategories)
	remedies.GET("/compare", s.handleCompareRemedies, s.requireAuth)
	remedies.GET("/:id", s.handleGetRemedy, s.optionalAuth)
}

func (s *Server) handleSearchRemedies(c echo.Context) error {
	query := validation.SearchQuery{
		Query:    c.QueryParam("q"),
		Category: c.QueryParam("category"),
	}
	if err := validation.Validate(&query); err != nil {
		return err
	}
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	result, err := s.app.SearchRemedies(c.Request().Context(), currentUserID(c), app.RemedySearch{
		Query:    strings.TrimSpace(query.Query),
		Category: strings.TrimSpace(query.Category),
	}, toDomainPage(page, limit))
	if err != nil {
		return err
	}
	return paginated(c, result.Remedies, page, limit, result.Total)
}

func (s *Server) handleCategories(c echo.Context) error {
	categories, err := s.app.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	return Success(c, http.StatusOK, categories)
}

// handleCompareRemedies accepts ids as a comma-separated list, repeated
// parameters, or both. Repeats are dropped before the count is validated.
func (s *Server) handleCompareRemedies(c echo.Context) error {
	var ids []string
	seen := make(map[string]struct{})
	for _, raw := range c.QueryParams()["ids"] {
		for _, id := range strings.Split(raw, ",") {
			id = strings.TrimSpace(id)
			if _, dup := seen[id]; id == "" || dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	query := validation.CompareQuery{IDs: ids}
	if err := validation.Validate(&query); err != nil {
		return err
	}

	remedies, err := s.app.CompareRemedies(c.Request().Context(), currentUserID(c), query.IDs)
	if err != nil {
		return err
	}
	return Success(c, http.StatusOK, remedies)
}

func (s *Server) handleGetRemedy(c echo.Context) error {
	id := c.Param("id")
	if !validation.ValidRemedyID(id) {
		return apperrors.InvalidInput("invalid remedy id").WithDetail("parameter", "id")
	}

	remedy, err := s.app.GetRemedy(c.Request().Context(), currentUserID(c), id)
	if err != nil {
		return err
	}
	return Success(c, http.StatusOK, remedy)
}

package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/remedyhub/internal/domain"
	apperrors "github.com/pscheid92/remedyhub/internal/platform/errors"
	"github.com/pscheid92/remedyhub/internal/validation"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// envelope is the JSON structure of every successful API response.
type envelope struct {
	Success  bool `json:"success"`
	Data     any  `json:"data"`
	Metadata any  `json:"metadata,omitempty"`
}

// Pagination describes the window of a paginated list.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

type deletedResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id,omitempty"`
}

func Success(c echo.Context, status int, data any) error {
	return SuccessWithMetadata(c, status, data, nil)
}

func SuccessWithMetadata(c echo.Context, status int, data any, metadata any) error {
	if err := c.JSON(status, envelope{Success: true, Data: data, Metadata: metadata}); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// pageParams reads page and limit from the query string.
func pageParams(c echo.Context) (page, limit int, err error) {
	page, err = positiveQueryInt(c, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	limit, err = positiveQueryInt(c, "limit", defaultPageLimit)
	if err != nil {
		return 0, 0, err
	}
	if limit > maxPageLimit {
		return 0, 0, apperrors.InvalidInput(fmt.Sprintf("limit must not exceed %d", maxPageLimit)).
			WithDetail("parameter", "limit")
	}
	return page, limit, nil
}

func positiveQueryInt(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperrors.InvalidInput(fmt.Sprintf("%s must be a positive integer", name)).
			WithDetail("parameter", name)
	}
	return n, nil
}

func toDomainPage(page, limit int) domain.Page {
	return domain.Page{Limit: limit, Offset: (page - 1) * limit}
}

func newPagination(page, limit, total int) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page*limit < total,
	}
}

// paginated writes a list together with its pagination metadata.
func paginated[T any](c echo.Context, items []T, page, limit, total int) error {
	if items == nil {
		items = []T{}
	}
	return SuccessWithMetadata(c, http.StatusOK, items, map[string]any{"pagination": newPagination(page, limit, total)})
}

// bindAndValidate decodes the JSON body into req and checks its constraints.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(httpErr.Internal, &typeErr) {
				return apperrors.InvalidInput("malformed JSON body").WithDetail("field", typeErr.Field)
			}
			if errors.As(httpErr.Internal, &syntaxErr) || httpErr.Code == http.StatusBadRequest {
				return apperrors.InvalidInput("malformed JSON body")
			}
		}
		return err
	}
	return validation.Validate(req)
}

package httpserver

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/remedyhub/internal/domain"
	apperrors "github.com/pscheid92/remedyhub/internal/platform/errors"
)

type sentinelMapping struct {
	err  error
	code apperrors.Code
}

// sentinelCodes maps domain sentinels onto API error codes. Checked in order.
var sentinelCodes = []sentinelMapping{
	{domain.ErrUserNotFound, apperrors.CodeNotFound},
	{domain.ErrRemedyNotFound, apperrors.CodeNotFound},
	{domain.ErrFavoriteNotFound, apperrors.CodeNotFound},
	{domain.ErrJournalEntryNotFound, apperrors.CodeNotFound},
	{domain.ErrMedicationNotFound, apperrors.CodeNotFound},
	{domain.ErrSubscriptionNotFound, apperrors.CodeNotFound},
	{domain.ErrSearchHistoryNotFound, apperrors.CodeNotFound},
	{domain.ErrContributionNotFound, apperrors.CodeNotFound},

	{domain.ErrEmailTaken, apperrors.CodeConflict},
	{domain.ErrRemedyExists, apperrors.CodeConflict},
	{domain.ErrFavoriteExists, apperrors.CodeConflict},
	{domain.ErrMedicationExists, apperrors.CodeConflict},
	{domain.ErrContributionReviewed, apperrors.CodeConflict},
	{domain.ErrSamePlan, apperrors.CodeConflict},

	{domain.ErrInvalidCredentials, apperrors.CodeUnauthorized},
	{domain.ErrNotOwner, apperrors.CodeForbidden},
	{domain.ErrInsufficientRole, apperrors.CodeForbidden},

	{domain.ErrUnknownPlan, apperrors.CodeInvalidInput},
	{domain.ErrFreePlanCancel, apperrors.CodeInvalidInput},
	{domain.ErrInvalidImageKey, apperrors.CodeInvalidInput},
	{domain.ErrInvalidRemedyID, apperrors.CodeInvalidInput},
	{domain.ErrPasswordTooLong, apperrors.CodeInvalidInput},
	{domain.ErrTooFewRemedies, apperrors.CodeInvalidInput},

	{domain.ErrUploadsDisabled, apperrors.CodeServiceUnavailable},
}

// toAPIError translates any error a handler or middleware returns into a
// structured API error.
func toAPIError(err error) *apperrors.Error {
	var apiErr *apperrors.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return fromHTTPError(httpErr)
	}

	var featureErr *domain.FeatureError
	if errors.As(err, &featureErr) {
		return apperrors.Forbidden(featureErr.Error()).
			WithDetail("feature", featureErr.Feature).
			WithDetail("plan", featureErr.Plan)
	}

	var limitErr *domain.LimitError
	if errors.As(err, &limitErr) {
		return apperrors.Forbidden(limitErr.Error()).
			WithDetail("resource", limitErr.Resource).
			WithDetail("limit", limitErr.Limit).
			WithDetail("plan", limitErr.Plan)
	}

	var quotaErr *domain.QuotaError
	if errors.As(err, &quotaErr) {
		return apperrors.RateLimitExceeded(quotaErr.Error()).
			WithDetail("kind", quotaErr.Kind).
			WithDetail("limit", quotaErr.Limit).
			WithDetail("resetAt", quotaErr.ResetAt)
	}

	for _, m := range sentinelCodes {
		if errors.Is(err, m.err) {
			return apperrors.New(m.code, err.Error())
		}
	}

	var pgErr *pgconn.PgError
	var connectErr *pgconn.ConnectError
	if errors.As(err, &pgErr) || errors.As(err, &connectErr) {
		return apperrors.Database("database error", err)
	}

	return apperrors.AsStructured(err)
}

func fromHTTPError(httpErr *echo.HTTPError) *apperrors.Error {
	message := "internal server error"
	if msg, ok := httpErr.Message.(string); ok && msg != "" {
		message = msg
	}

	err := apperrors.New(apperrors.FromStatus(httpErr.Code), message)
	if httpErr.Internal != nil {
		err.Cause = httpErr.Internal
	}
	return err
}

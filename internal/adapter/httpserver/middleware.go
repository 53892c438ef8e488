package httpserver

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pscheid92/remedyhub/internal/adapter/metrics"
	"github.com/pscheid92/remedyhub/internal/platform/correlation"
	apperrors "github.com/pscheid92/remedyhub/internal/platform/errors"
)

const (
	maintenanceBypassHeader = "X-Maintenance-Bypass"
	maintenanceRetryAfter   = "300"
	csrfHeader              = "X-CSRF-Token"
	csrfCookieName          = "csrf_token"
	csrfContextKey          = "csrf"
	permissionsPolicy       = "camera=(), microphone=(), geolocation=()"
)

func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := correlation.FromHeader(c.Request().Header.Get(correlation.Header))
		ctx := correlation.WithID(c.Request().Context(), id)
		c.SetRequest(c.Request().WithContext(ctx))
		c.Response().Header().Set(correlation.Header, id)
		return next(c)
	}
}

// ErrorHandlingMiddleware renders every error returned further down the chain
// as a failure envelope. Cause and stack are exposed when includeDebug is set.
func ErrorHandlingMiddleware(includeDebug bool, m *metrics.HTTPMetrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}
			return writeError(c, err, includeDebug, m)
		}
	}
}

// httpErrorHandler catches errors that bypassed the error middleware.
func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if werr := writeError(c, err, !s.config.IsProduction(), s.httpMetrics); werr != nil {
		slog.ErrorContext(c.Request().Context(), "Failed to write error response", "error", werr)
	}
}

func writeError(c echo.Context, err error, includeDebug bool, m *metrics.HTTPMetrics) error {
	apiErr := toAPIError(err)
	logError(c, apiErr)
	if m != nil {
		m.RecordError(string(apiErr.Code))
	}

	if c.Response().Committed {
		return nil
	}
	if err := c.JSON(apiErr.HTTPStatus(), apiErr.Response(includeDebug)); err != nil {
		return fmt.Errorf("failed to write error response: %w", err)
	}
	return nil
}

func logError(c echo.Context, err *apperrors.Error) {
	ctx := c.Request().Context()
	attrs := []any{
		"code", err.Code,
		"message", err.Message,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"status", err.HTTPStatus(),
	}

	for k, v := range err.Details {
		attrs = append(attrs, k, v)
	}

	if userID := c.Get(contextKeyUserID); userID != nil {
		attrs = append(attrs, "user_id", userID)
	}

	switch err.Code {
	case apperrors.CodeInvalidInput, apperrors.CodeMissingParameter, apperrors.CodeNotFound, apperrors.CodeUnauthorized:
		slog.InfoContext(ctx, "Client error", attrs...)
	case apperrors.CodeConflict, apperrors.CodeForbidden, apperrors.CodeRateLimitExceeded:
		slog.WarnContext(ctx, "Request refused", attrs...)
	default:
		if err.Cause != nil {
			attrs = append(attrs, "cause", err.Cause)
		}
		slog.ErrorContext(ctx, "Server error", attrs...)
	}
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.InfoContext(c.Request().Context(), "Request", attrs...)
			return nil
		},
	})
}

func (s *Server) setupSecureHeadersMiddleware() echo.MiddlewareFunc {
	secure := middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            63072000, // 2 years; only sent over HTTPS
		HSTSPreloadEnabled:    true,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		h := secure(next)
		return func(c echo.Context) error {
			c.Response().Header().Set("Permissions-Policy", permissionsPolicy)
			return h(c)
		}
	}
}

// operationalPath reports whether the path serves health checks, build info or metrics.
func operationalPath(path string) bool {
	return strings.HasPrefix(path, "/health/") || path == "/version" || path == "/metrics"
}

func (s *Server) maintenanceMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.config.MaintenanceMode || operationalPath(c.Request().URL.Path) {
			return next(c)
		}

		token := s.config.MaintenanceBypassToken
		provided := c.Request().Header.Get(maintenanceBypassHeader)
		if token != "" && subtle.ConstantTimeCompare([]byte(provided), []byte(token)) == 1 {
			return next(c)
		}

		c.Response().Header().Set("Retry-After", maintenanceRetryAfter)
		return apperrors.ServiceUnavailable("service is down for maintenance")
	}
}

func (s *Server) botBlockingMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if operationalPath(c.Request().URL.Path) {
			return next(c)
		}

		ua := strings.ToLower(c.Request().UserAgent())
		if ua == "" {
			if strings.HasPrefix(c.Request().URL.Path, "/api/") {
				return apperrors.Forbidden("user agent required")
			}
			return next(c)
		}

		for _, blocked := range s.config.BlockedUserAgents {
			if blocked != "" && strings.Contains(ua, strings.ToLower(blocked)) {
				return apperrors.Forbidden("automated clients are not allowed")
			}
		}
		return next(c)
	}
}

func (s *Server) originAllowed(origin string) bool {
	return slices.Contains(s.config.CORSAllowedOrigins, origin)
}

// setupCORSMiddleware answers preflights for allow-listed origins and refuses
// preflights from any other origin.
func (s *Server) setupCORSMiddleware() echo.MiddlewareFunc {
	cors := middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     s.config.CORSAllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, csrfHeader, correlation.Header},
		ExposeHeaders:    []string{correlation.Header, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           600,
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		h := cors(next)
		return func(c echo.Context) error {
			req := c.Request()
			origin := req.Header.Get(echo.HeaderOrigin)
			preflight := req.Method == http.MethodOptions && req.Header.Get(echo.HeaderAccessControlRequestMethod) != ""
			if preflight && origin != "" && !s.originAllowed(origin) {
				return apperrors.Forbidden("origin not allowed").WithDetail("origin", origin)
			}
			return h(c)
		}
	}
}

// setupCSRFMiddleware protects cookie-authenticated writes with a
// double-submit token and an origin check. Bearer requests and requests
// without a session cookie carry no ambient credentials and are skipped.
func (s *Server) setupCSRFMiddleware() echo.MiddlewareFunc {
	csrf := middleware.CSRFWithConfig(middleware.CSRFConfig{
		Skipper:        s.skipCSRF,
		TokenLookup:    "header:" + csrfHeader,
		ContextKey:     csrfContextKey,
		CookieName:     csrfCookieName,
		CookiePath:     "/",
		CookieMaxAge:   int(s.config.SessionMaxAge.Seconds()),
		CookieHTTPOnly: true,
		CookieSecure:   s.config.IsProduction(),
		CookieSameSite: http.SameSiteStrictMode,
		ErrorHandler: func(_ error, _ echo.Context) error {
			return apperrors.Forbidden("missing or invalid CSRF token")
		},
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		h := csrf(next)
		return func(c echo.Context) error {
			if !s.skipCSRF(c) && unsafeMethod(c.Request().Method) && !s.sameOrigin(c.Request()) {
				return apperrors.Forbidden("cross-origin request refused")
			}
			return h(c)
		}
	}
}

func (s *Server) skipCSRF(c echo.Context) bool {
	req := c.Request()
	if !strings.HasPrefix(req.URL.Path, "/api/") {
		return true
	}
	if bearerToken(req) != "" {
		return true
	}
	if !unsafeMethod(req.Method) {
		return false
	}
	_, err := req.Cookie(sessionName)
	return err != nil
}

func unsafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

// sameOrigin checks Origin, falling back to Referer, against the allow-list
// and the request host.
func (s *Server) sameOrigin(req *http.Request) bool {
	origin := req.Header.Get(echo.HeaderOrigin)
	if origin == "" {
		ref, err := url.Parse(req.Referer())
		if err != nil || ref.Host == "" {
			return false
		}
		origin = ref.Scheme + "://" + ref.Host
	}
	if s.originAllowed(origin) {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == req.Host
}

package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/remedyhub/internal/domain"
	"github.com/pscheid92/remedyhub/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRemoteAddr = "1.2.3.4:1234"

func limitedHandler(mw echo.MiddlewareFunc) echo.HandlerFunc {
	return mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
}

func callLimited(e *echo.Echo, handler echo.HandlerFunc, path, remoteAddr string) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	return rec, handler(e.NewContext(req, rec))
}

func TestRateLimiterAllowsRequestsUnderLimit(t *testing.T) {
	e := echo.New()
	handler := limitedHandler(newRateLimiter(10, 3))

	for range 3 {
		rec, err := callLimited(e, handler, "/api/plans", testRemoteAddr)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimiterBlocksExcessiveRequests(t *testing.T) {
	e := echo.New()
	handler := limitedHandler(newRateLimiter(0.01, 1))

	_, err := callLimited(e, handler, "/api/plans", testRemoteAddr)
	require.NoError(t, err)

	_, err = callLimited(e, handler, "/api/plans", testRemoteAddr)
	require.Error(t, err)
	apiErr := toAPIError(err)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.HTTPStatus())
}

func TestRateLimiterDifferentIPsAreIndependent(t *testing.T) {
	e := echo.New()
	handler := limitedHandler(newRateLimiter(0.01, 1))

	_, err := callLimited(e, handler, "/api/plans", testRemoteAddr)
	require.NoError(t, err)

	rec, err := callLimited(e, handler, "/api/plans", "5.6.7.8:1234")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiterSkipsOperationalEndpoints(t *testing.T) {
	e := echo.New()
	handler := limitedHandler(newRateLimiter(0.01, 1))

	for range 3 {
		rec, err := callLimited(e, handler, "/health/live", testRemoteAddr)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimit_EnvelopeThroughServer(t *testing.T) {
	srv := newTestServer(t, &mockAppService{}, withConfig(func(cfg *config.Config) {
		cfg.RateLimitRPS = 0.01
		cfg.RateLimitBurst = 1
	}))

	first := serve(srv, newRequest(http.MethodGet, "/api/plans", ""))
	require.Equal(t, http.StatusOK, first.Code)

	second := serve(srv, newRequest(http.MethodGet, "/api/plans", ""))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", decodeEnvelope(t, second).Error.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
}

func TestRateLimit_StricterOnAuth(t *testing.T) {
	mock := &mockAppService{
		authenticateFn: func(context.Context, string, string) (*domain.User, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	srv := newTestServer(t, mock, withConfig(func(cfg *config.Config) {
		cfg.AuthRateLimitRPS = 0.01
		cfg.AuthRateLimitBurst = 2
	}))

	body := `{"email":"ada@example.com","password":"wrong-password"}`
	for range 2 {
		rec := serve(srv, newRequest(http.MethodPost, "/api/auth/login", body))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := serve(srv, newRequest(http.MethodPost, "/api/auth/login", body))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Other routes keep the global budget.
	assert.Equal(t, http.StatusOK, serve(srv, newRequest(http.MethodGet, "/api/plans", "")).Code)
}

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/remedyhub/internal/app"
	"github.com/pscheid92/remedyhub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRegister_CreatesSessionAndToken(t *testing.T) {
	user := newTestUser(domain.RoleUser)
	mock := &mockAppService{
		registerFn: func(_ context.Context, email, name, password string) (*domain.User, error) {
			assert.Equal(t, "ada@example.com", email)
			assert.Equal(t, "Ada", name)
			assert.Equal(t, "correct-horse", password)
			return user, nil
		},
	}
	srv := newTestServer(t, mock)

	rec := serve(srv, newRequest(http.MethodPost, "/api/auth/register",
		`{"email":"ada@example.com","name":"Ada","password":"correct-horse"}`))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decodeData[authResponse](t, rec)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.True(t, testNow.Add(srv.config.JWTTTL).Equal(resp.ExpiresAt), resp.ExpiresAt)

	got, err := srv.tokens.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got)
	assert.NotNil(t, findCookie(rec.Result().Cookies(), sessionName))
}

func TestRegister_ValidationAndConflict(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		registerFn func(context.Context, string, string, string) (*domain.User, error)
		wantStatus int
		wantCode   string
	}{
		{"short password", `{"email":"ada@example.com","name":"Ada","password":"short"}`, nil, http.StatusBadRequest, "INVALID_INPUT"},
		{"missing email", `{"name":"Ada","password":"correct-horse"}`, nil, http.StatusBadRequest, "MISSING_PARAMETER"},
		{"malformed", `{"email":`, nil, http.StatusBadRequest, "INVALID_INPUT"},
		{
			"email taken", `{"email":"ada@example.com","name":"Ada","password":"correct-horse"}`,
			func(context.Context, string, string, string) (*domain.User, error) { return nil, domain.ErrEmailTaken },
			http.StatusConflict, "CONFLICT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &mockAppService{registerFn: tt.registerFn})

			rec := serve(srv, newRequest(http.MethodPost, "/api/auth/register", tt.body))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeEnvelope(t, rec).Error.Code)
		})
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	mock := &mockAppService{
		authenticateFn: func(context.Context, string, string) (*domain.User, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	srv := newTestServer(t, mock)

	rec := serve(srv, newRequest(http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"nope-nope"}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	assert.Equal(t, domain.ErrInvalidCredentials.Error(), env.Error.Message)
}

func TestLogin_SessionAuthenticatesLaterRequests(t *testing.T) {
	user := newTestUser(domain.RoleUser)
	mock := userWith(user)
	mock.authenticateFn = func(context.Context, string, string) (*domain.User, error) {
		return user, nil
	}
	srv := newTestServer(t, mock)

	login := serve(srv, newRequest(http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"correct-horse"}`))
	require.Equal(t, http.StatusOK, login.Code, login.Body.String())
	cookie := findCookie(login.Result().Cookies(), sessionName)
	require.NotNil(t, cookie)

	req := newRequest(http.MethodGet, "/api/user", "")
	req.AddCookie(cookie)
	rec := serve(srv, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID, decodeData[domain.User](t, rec).ID)
}

func TestLogout_ClearsSession(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	rec := serve(srv, newRequest(http.MethodPost, "/api/auth/logout", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	cookie := findCookie(rec.Result().Cookies(), sessionName)
	require.NotNil(t, cookie)
	assert.Negative(t, cookie.MaxAge)
}

func TestRequireAuth(t *testing.T) {
	user := newTestUser(domain.RoleUser)

	tests := []struct {
		name       string
		prepare    func(t *testing.T, srv *Server, req *http.Request)
		wantStatus int
	}{
		{"no credentials", func(*testing.T, *Server, *http.Request) {}, http.StatusUnauthorized},
		{"valid bearer", func(t *testing.T, srv *Server, req *http.Request) {
			withBearer(t, srv, req, user.ID)
		}, http.StatusOK},
		{"garbage bearer", func(_ *testing.T, _ *Server, req *http.Request) {
			req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-jwt")
		}, http.StatusUnauthorized},
		{"bearer for deleted user", func(t *testing.T, srv *Server, req *http.Request) {
			withBearer(t, srv, req, uuid.New())
		}, http.StatusUnauthorized},
		{"valid session", func(t *testing.T, srv *Server, req *http.Request) {
			req.AddCookie(sessionCookie(t, srv, user.ID))
		}, http.StatusOK},
		{"stale session", func(t *testing.T, srv *Server, req *http.Request) {
			req.AddCookie(sessionCookie(t, srv, uuid.New()))
		}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, userWith(user))
			req := newRequest(http.MethodGet, "/api/user", "")
			tt.prepare(t, srv, req)

			rec := serve(srv, req)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestRequireAuth_UserLookupFailureIsServerError(t *testing.T) {
	mock := &mockAppService{
		getUserFn: func(context.Context, uuid.UUID) (*domain.User, error) {
			return nil, errors.New("connection reset")
		},
	}
	srv := newTestServer(t, mock)

	req := withBearer(t, srv, newRequest(http.MethodGet, "/api/user", ""), uuid.New())
	rec := serve(srv, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireModerator(t *testing.T) {
	tests := []struct {
		role       domain.Role
		wantStatus int
	}{
		{domain.RoleUser, http.StatusForbidden},
		{domain.RoleModerator, http.StatusOK},
		{domain.RoleAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			user := newTestUser(tt.role)
			mock := userWith(user)
			mock.listPendingContributionsFn = func(context.Context, uuid.UUID, domain.Page) ([]domain.Contribution, int, error) {
				return nil, 0, nil
			}
			srv := newTestServer(t, mock)

			req := withBearer(t, srv, newRequest(http.MethodGet, "/api/contributions/pending", ""), user.ID)
			rec := serve(srv, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestDeleteUser_ClearsSession(t *testing.T) {
	user := newTestUser(domain.RoleUser)
	mock := userWith(user)
	var deleted uuid.UUID
	mock.deleteAccountFn = func(_ context.Context, id uuid.UUID) error {
		deleted = id
		return nil
	}
	srv := newTestServer(t, mock)

	req := withBearer(t, srv, newRequest(http.MethodDelete, "/api/user", ""), user.ID)
	rec := serve(srv, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID, deleted)
	resp := decodeData[deletedResponse](t, rec)
	assert.True(t, resp.Deleted)
	assert.Equal(t, user.ID.String(), resp.ID)
}

func TestUpdateUser_PassesOnlyProvidedFields(t *testing.T) {
	user := newTestUser(domain.RoleUser)
	mock := userWith(user)
	mock.updateProfileFn = func(_ context.Context, _ uuid.UUID, upd app.ProfileUpdate) (*domain.User, error) {
		require.NotNil(t, upd.Name)
		assert.Equal(t, "Ada L.", *upd.Name)
		assert.Nil(t, upd.Email)
		updated := *user
		updated.Name = *upd.Name
		return &updated, nil
	}
	srv := newTestServer(t, mock)

	req := withBearer(t, srv, newRequest(http.MethodPut, "/api/user", `{"name":"Ada L."}`), user.ID)
	rec := serve(srv, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Ada L.", decodeData[domain.User](t, rec).Name)
}

package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/remedyhub/internal/domain"
	apperrors "github.com/pscheid92/remedyhub/internal/platform/errors"
	"github.com/pscheid92/remedyhub/internal/validation"
)

const (
	contextKeyUserID = "userID"
	contextKeyUser   = "user"
)

type authResponse struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

func (s *Server) registerAuthRoutes(api *echo.Group, authLimiter echo.MiddlewareFunc) {
	auth := api.Group("/auth")
	auth.POST("/register", s.handleRegister, authLimiter)
	auth.POST("/login", s.handleLogin, authLimiter)
	auth.POST("/logout", s.handleLogout)
	auth.GET("/csrf", s.handleCSRFToken)
}

func (s *Server) handleRegister(c echo.Context) error {
	var req validation.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := s.app.Register(c.Request().Context(), req.Email, req.Name, req.Password)
	if err != nil {
		return err
	}

	resp, err := s.startSession(c, user)
	if err != nil {
		return err
	}

	slog.InfoContext(c.Request().Context(), "User registered", "user_id", user.ID)
	return Success(c, http.StatusCreated, resp)
}

func (s *Server) handleLogin(c echo.Context) error {
	var req validation.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := s.app.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	resp, err := s.startSession(c, user)
	if err != nil {
		return err
	}

	slog.InfoContext(c.Request().Context(), "User logged in", "user_id", user.ID)
	return Success(c, http.StatusOK, resp)
}

// startSession replaces any pre-login session with a fresh one carrying the
// user, and issues a bearer token for non-browser clients.
func (s *Server) startSession(c echo.Context, user *domain.User) (*authResponse, error) {
	if old, err := s.sessionStore.Get(c.Request(), sessionName); err == nil && !old.IsNew {
		old.Options.MaxAge = -1
		if err := old.Save(c.Request(), c.Response().Writer); err != nil {
			return nil, apperrors.Internal("failed to invalidate old session", err)
		}
	}

	session, err := s.sessionStore.New(c.Request(), sessionName)
	if err != nil {
		return nil, apperrors.Internal("failed to create session", err)
	}
	session.Values[sessionKeyUserID] = user.ID.String()
	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		return nil, apperrors.Internal("failed to save session", err)
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to issue token", err)
	}
	return &authResponse{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *Server) handleLogout(c echo.Context) error {
	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		slog.WarnContext(c.Request().Context(), "Failed to decode session during logout", "error", err)
		session, err = s.sessionStore.New(c.Request(), sessionName)
		if err != nil {
			return apperrors.Internal("failed to create session during logout", err)
		}
	}
	session.Options.MaxAge = -1
	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		return apperrors.Internal("failed to clear session", err)
	}

	return Success(c, http.StatusOK, map[string]bool{"loggedOut": true})
}

func (s *Server) handleCSRFToken(c echo.Context) error {
	token, _ := c.Get(csrfContextKey).(string)
	return Success(c, http.StatusOK, map[string]string{"csrfToken": token})
}

func bearerToken(req *http.Request) string {
	scheme, token, ok := strings.Cut(req.Header.Get(echo.HeaderAuthorization), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// sessionUserID returns the user stored in the session cookie, if any.
func (s *Server) sessionUserID(c echo.Context) (uuid.UUID, bool) {
	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		return uuid.Nil, false
	}
	raw, ok := session.Values[sessionKeyUserID].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) clearSession(c echo.Context) {
	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		return
	}
	session.Options.MaxAge = -1
	_ = session.Save(c.Request(), c.Response().Writer)
}

// resolveUser authenticates the request by bearer token first, then by
// session cookie. It returns nil without error when no credentials are sent.
func (s *Server) resolveUser(c echo.Context) (*domain.User, error) {
	ctx := c.Request().Context()

	if token := bearerToken(c.Request()); token != "" {
		userID, err := s.tokens.Parse(token)
		if err != nil {
			return nil, apperrors.Unauthorized("invalid or expired token")
		}
		user, err := s.app.GetUser(ctx, userID)
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, apperrors.Unauthorized("invalid or expired token")
		}
		if err != nil {
			return nil, err
		}
		return user, nil
	}

	userID, ok := s.sessionUserID(c)
	if !ok {
		return nil, nil
	}
	user, err := s.app.GetUser(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		slog.WarnContext(ctx, "Session references unknown user, invalidating", "user_id", userID)
		s.clearSession(c)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := s.resolveUser(c)
		if err != nil {
			return err
		}
		if user == nil {
			return apperrors.Unauthorized("authentication required")
		}
		setUser(c, user)
		return next(c)
	}
}

// optionalAuth attaches the user when credentials are present and lets
// anonymous requests through.
func (s *Server) optionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := s.resolveUser(c)
		if err != nil {
			return err
		}
		if user != nil {
			setUser(c, user)
		}
		return next(c)
	}
}

func (s *Server) requireModerator(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := c.Get(contextKeyUser).(*domain.User)
		if !ok {
			return apperrors.Unauthorized("authentication required")
		}
		if !user.Role.CanModerate() {
			return apperrors.Forbidden("moderator role required")
		}
		return next(c)
	}
}

func setUser(c echo.Context, user *domain.User) {
	c.Set(contextKeyUserID, user.ID)
	c.Set(contextKeyUser, user)
}

// currentUserID returns the authenticated user, or uuid.Nil for anonymous requests.
func currentUserID(c echo.Context) uuid.UUID {
	id, _ := c.Get(contextKeyUserID).(uuid.UUID)
	return id
}

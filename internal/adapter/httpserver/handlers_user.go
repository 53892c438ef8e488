package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/remedyhub/internal/app"
	"github.com/pscheid92/remedyhub/internal/validation"
)

func (s *Server) registerUserRoutes(api *echo.Group) {
	api.GET("/user", s.handleGetUser, s.requireAuth)
	api.PUT("/user", s.handleUpdateUser, s.requireAuth)
	api.DELETE("/user", s.handleDeleteUser, s.requireAuth)
}

func (s *Server) handleGetUser(c echo.Context) error {
	return Success(c, http.StatusOK, c.Get(contextKeyUser))
}

func (s *Server) handleUpdateUser(c echo.Context) error {
	var req validation.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := s.app.UpdateProfile(c.Request().Context(), currentUserID(c), app.ProfileUpdate{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return err
	}
	return Success(c, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(c echo.Context) error {
	userID := currentUserID(c)
	if err := s.app.DeleteAccount(c.Request().Context(), userID); err != nil {
		return err
	}
	s.clearSession(c)

	slog.InfoContext(c.Request().Context(), "Account deleted", "user_id", userID)
	return Success(c, http.StatusOK, deletedResponse{Deleted: true, ID: userID.String()})
}

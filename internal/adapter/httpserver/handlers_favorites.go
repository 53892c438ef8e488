package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/remedyhub/internal/validation"
)

func (s *Server) registerFavoriteRoutes(api *echo.Group) {
	favorites := api.Group("/favorites", s.requireAuth)
	favorites.GET("", s.handleListFavorites)
	favorites.POST("", s.handleAddFavorite)
	favorites.PUT("/:id", s.handleUpdateFavorite)
	favorites.DELETE("/:id", s.handleDeleteFavorite)
}

func (s *Server) handleListFavorites(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	favorites, total, err := s.app.ListFavorites(c.Request().Context(), currentUserID(c), toDomainPage(page, limit))
	if err != nil {
		return err
	}
	return paginated(c, favorites, page, limit, total)
}

func (s *Server) handleAddFavorite(c echo.Context) error {
	var req validation.CreateFavoriteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	fav, err := s.app.AddFavorite(c.Request().Context(), currentUserID(c), req.RemedyID, req.Notes)
	if err != nil {
		return err
	}
	return Success(c, http.StatusCreated, fav)
}

func (s *Server) handleUpdateFavorite(c echo.Context) error {
	id, err := validation.ParseUUID("id", c.Param("id"))
	if err != nil {
		return err
	}
	var req validation.UpdateFavoriteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	fav, err := s.app.UpdateFavorite(c.Request().Context(), currentUserID(c), id, req.Notes)
	if err != nil {
		return err
	}
	return Success(c, http.StatusOK, fav)
}

func (s *Server) handleDeleteFavorite(c echo.Context) error {
	id, err := validation.ParseUUID("id", c.Param("id"))
	if err != nil {
		return err
	}

	if err := s.app.DeleteFavorite(c.Request().Context(), currentUserID(c), id); err != nil {
		return err
	}
	return Success(c, http.StatusOK, deletedResponse{Deleted: true, ID: id.String()})
}

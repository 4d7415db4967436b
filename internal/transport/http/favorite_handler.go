package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scenictrip/backend/internal/service"
	"github.com/scenictrip/backend/internal/util"
)

type FavoriteHandler struct {
	favorites *service.FavoriteService
}

func RegisterFavorites(e *echo.Echo, auth *service.AuthService, favoriteService *service.FavoriteService) {
	handler := &FavoriteHandler{favorites: favoriteService}

	protected := e.Group("/api/v1/attractions/:id/favorite", RequireAuth(auth))
	protected.POST("", handler.save)
	protected.DELETE("", handler.remove)
	protected.GET("", handler.status)

	e.GET("/api/v1/users/me/favorites", handler.listMine, RequireAuth(auth))
}

func (h *FavoriteHandler) save(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	favorite, err := h.favorites.Save(c.Request().Context(), user.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAttractionNotFound):
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		case errors.Is(err, service.ErrFavoriteAlreadyExists):
			return c.JSON(http.StatusConflict, util.Error(err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("unable to save favorite"))
		}
	}
	return c.JSON(http.StatusCreated, util.Data("favorite", favorite))
}

func (h *FavoriteHandler) remove(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	if err := h.favorites.Remove(c.Request().Context(), user.ID, id); err != nil {
		switch {
		case errors.Is(err, service.ErrFavoriteNotFound):
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		case errors.Is(err, service.ErrAttractionNotFound):
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("unable to remove favorite"))
		}
	}
	return c.JSON(http.StatusOK, util.Deleted())
}

func (h *FavoriteHandler) status(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	favorited, err := h.favorites.IsFavorited(c.Request().Context(), user.ID, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to check favorite"))
	}
	return c.JSON(http.StatusOK, echo.Map{"favorited": favorited})
}

func (h *FavoriteHandler) listMine(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	items, err := h.favorites.ListByUser(c.Request().Context(), user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to list favorites"))
	}
	return c.JSON(http.StatusOK, util.Data("favorites", items))
}

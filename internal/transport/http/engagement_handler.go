package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scenictrip/backend/internal/domain"
	"github.com/scenictrip/backend/internal/service"
	"github.com/scenictrip/backend/internal/util"
)

type EngagementHandler struct {
	engagements *service.EngagementService
}

func RegisterEngagement(e *echo.Echo, auth *service.AuthService, engagementService *service.EngagementService) {
	handler := &EngagementHandler{engagements: engagementService}

	e.GET("/api/v1/attractions/:id/engagement", handler.get)

	protected := e.Group("/api/v1/attractions/:id", RequireAuth(auth))
	protected.PUT("/like", handler.increment(domain.KindLikes))
	protected.DELETE("/like", handler.decrement(domain.KindLikes))
	protected.PUT("/share", handler.increment(domain.KindShares))
}

func (h *EngagementHandler) get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	engagement, err := h.engagements.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrAttractionNotFound) {
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load engagement"))
	}
	return c.JSON(http.StatusOK, util.Data("engagement", engagement))
}

func (h *EngagementHandler) increment(kind domain.EngagementKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		}

		engagement, err := h.engagements.Increment(c.Request().Context(), kind, id)
		if err != nil {
			if errors.Is(err, service.ErrAttractionNotFound) {
				return c.JSON(http.StatusNotFound, util.Error(err.Error()))
			}
			return c.JSON(http.StatusInternalServerError, util.Error("unable to update engagement"))
		}
		return c.JSON(http.StatusOK, util.Data("engagement", engagement))
	}
}

func (h *EngagementHandler) decrement(kind domain.EngagementKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		}

		engagement, err := h.engagements.Decrement(c.Request().Context(), kind, id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrAttractionNotFound):
				return c.JSON(http.StatusNotFound, util.Error(err.Error()))
			case errors.Is(err, service.ErrCounterAtZero):
				return c.JSON(http.StatusConflict, util.Error(err.Error()))
			default:
				return c.JSON(http.StatusInternalServerError, util.Error("unable to update engagement"))
			}
		}
		return c.JSON(http.StatusOK, util.Data("engagement", engagement))
	}
}

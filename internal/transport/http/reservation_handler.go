package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scenictrip/backend/internal/service"
	"github.com/scenictrip/backend/internal/util"
)

type ReservationHandler struct {
	reservations *service.ReservationService
}

func RegisterReservations(e *echo.Echo, auth *service.AuthService, reservationService *service.ReservationService) {
	handler := &ReservationHandler{reservations: reservationService}

	protected := e.Group("/api/v1/reservations", RequireAuth(auth))
	protected.POST("", handler.reserve)
	protected.DELETE("", handler.cancel)

	e.GET("/api/v1/users/me/reservations", handler.listMine, RequireAuth(auth))
}

type reservationRequest struct {
	AttractionID int64  `json:"attraction_id"`
	Date         string `json:"date"`
}

func (h *ReservationHandler) reserve(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	var req reservationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if req.AttractionID <= 0 {
		return c.JSON(http.StatusBadRequest, util.Error("attraction_id must be a positive integer"))
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	reservation, err := h.reservations.Reserve(c.Request().Context(), user.ID, req.AttractionID, date)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAttractionNotFound), errors.Is(err, service.ErrTicketDayNotFound):
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		case errors.Is(err, service.ErrTicketsExhausted), errors.Is(err, service.ErrReservationAlreadyExists):
			return c.JSON(http.StatusConflict, util.Error(err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("unable to create reservation"))
		}
	}
	return c.JSON(http.StatusCreated, util.Data("reservation", reservation))
}

func (h *ReservationHandler) cancel(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	var req reservationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if req.AttractionID <= 0 {
		return c.JSON(http.StatusBadRequest, util.Error("attraction_id must be a positive integer"))
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	if err := h.reservations.Cancel(c.Request().Context(), user.ID, req.AttractionID, date); err != nil {
		if errors.Is(err, service.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to cancel reservation"))
	}
	return c.JSON(http.StatusOK, echo.Map{"cancelled": true})
}

func (h *ReservationHandler) listMine(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	items, err := h.reservations.ListByUser(c.Request().Context(), user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to list reservations"))
	}
	return c.JSON(http.StatusOK, util.Data("reservations", items))
}

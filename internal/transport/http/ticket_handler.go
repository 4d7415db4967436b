package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scenictrip/backend/internal/service"
	"github.com/scenictrip/backend/internal/util"
)

type TicketHandler struct {
	tickets *service.TicketService
}

func RegisterTickets(e *echo.Echo, auth *service.AuthService, ticketService *service.TicketService) {
	handler := &TicketHandler{tickets: ticketService}

	public := e.Group("/api/v1/attractions/:id/tickets")
	public.GET("", handler.list)

	protected := e.Group("/api/v1/attractions/:id/tickets", RequireAuth(auth))
	protected.POST("", handler.createDay)
	protected.PUT("", handler.setRemaining)
	protected.PUT("/replace", handler.replaceDay)
	protected.DELETE("", handler.deleteDay)
}

func (h *TicketHandler) list(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	days, err := h.tickets.ListDays(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrAttractionNotFound) {
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to list tickets"))
	}
	return c.JSON(http.StatusOK, util.Data("tickets", days))
}

func (h *TicketHandler) createDay(c echo.Context) error {
	attractionID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	var req struct {
		Date         string `json:"date"`
		TotalTickets int    `json:"total_tickets"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	day, err := h.tickets.CreateDay(c.Request().Context(), attractionID, date, req.TotalTickets)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAttractionNotFound):
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		case errors.Is(err, service.ErrTicketDayExists):
			return c.JSON(http.StatusConflict, util.Error(err.Error()))
		case errors.Is(err, service.ErrTotalNegative):
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("unable to create tickets"))
		}
	}
	return c.JSON(http.StatusCreated, util.Data("ticket", day))
}

func (h *TicketHandler) setRemaining(c echo.Context) error {
	attractionID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	var req struct {
		Date             string `json:"date"`
		RemainingTickets int    `json:"remaining_tickets"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	day, err := h.tickets.SetRemaining(c.Request().Context(), attractionID, date, req.RemainingTickets)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTicketDayNotFound):
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		case errors.Is(err, service.ErrRemainingOutOfRange):
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("unable to update tickets"))
		}
	}
	return c.JSON(http.StatusOK, util.Data("ticket", day))
}

func (h *TicketHandler) replaceDay(c echo.Context) error {
	attractionID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	var req struct {
		Date         string `json:"date"`
		TotalTickets int    `json:"total_tickets"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	day, err := h.tickets.ReplaceDay(c.Request().Context(), attractionID, date, req.TotalTickets)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTicketDayNotFound):
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		case errors.Is(err, service.ErrTotalNegative):
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("unable to replace tickets"))
		}
	}
	return c.JSON(http.StatusOK, util.Data("ticket", day))
}

func (h *TicketHandler) deleteDay(c echo.Context) error {
	attractionID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	if err := h.tickets.DeleteDay(c.Request().Context(), attractionID, date); err != nil {
		if errors.Is(err, service.ErrTicketDayNotFound) {
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to delete tickets"))
	}
	return c.JSON(http.StatusOK, util.Deleted())
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scenictrip/backend/internal/domain"
	"github.com/scenictrip/backend/internal/service"
	"github.com/scenictrip/backend/internal/util"
)

type AttractionHandler struct {
	attractions *service.AttractionService
	tickets     *service.TicketService
}

func RegisterAttractions(e *echo.Echo, auth *service.AuthService, attractionService *service.AttractionService, ticketService *service.TicketService) {
	handler := &AttractionHandler{
		attractions: attractionService,
		tickets:     ticketService,
	}

	public := e.Group("/api/v1/attractions")
	public.GET("", handler.list)
	public.GET("/:id", handler.get)

	protected := e.Group("/api/v1/attractions", RequireAuth(auth))
	protected.POST("", handler.create)
	protected.PUT("/:id", handler.update)
	protected.DELETE("/:id", handler.remove)
	protected.POST("/:id/regenerate-week", handler.regenerateWeek)
	protected.POST("/:id/image", handler.uploadImage)
}

type attractionRequest struct {
	Name         string          `json:"name"`
	ImageURL     *string         `json:"image_url"`
	Description  *string         `json:"description"`
	Category     *string         `json:"category"`
	Tags         json.RawMessage `json:"tags"`
	TotalTickets *int            `json:"total_tickets"`
}

// fields converts the request body into repository fields. Tags arrive either
// as an array or as one string joined with the full-width comma.
func (r attractionRequest) fields() (domain.AttractionFields, error) {
	fields := domain.AttractionFields{
		Name:        r.Name,
		ImageURL:    r.ImageURL,
		Description: r.Description,
		Category:    r.Category,
	}

	if len(r.Tags) == 0 {
		return fields, nil
	}
	var asList []string
	if err := json.Unmarshal(r.Tags, &asList); err == nil {
		fields.Tags = asList
		return fields, nil
	}
	var asString string
	if err := json.Unmarshal(r.Tags, &asString); err == nil {
		fields.Tags = domain.SplitTags(asString)
		return fields, nil
	}
	return fields, errors.New("tags must be an array of strings or a delimited string")
}

func (h *AttractionHandler) list(c echo.Context) error {
	items, err := h.attractions.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to list attractions"))
	}
	return c.JSON(http.StatusOK, util.Data("attractions", items))
}

func (h *AttractionHandler) get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	detail, err := h.attractions.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrAttractionNotFound) {
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load attraction"))
	}
	return c.JSON(http.StatusOK, util.Data("attraction", detail))
}

func (h *AttractionHandler) create(c echo.Context) error {
	var req attractionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	fields, err := req.fields()
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	seedTotal := 0
	if req.TotalTickets != nil {
		seedTotal = *req.TotalTickets
	}

	attraction, engagement, err := h.attractions.Create(c.Request().Context(), fields, seedTotal)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNameRequired), errors.Is(err, service.ErrTotalNegative):
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("unable to create attraction"))
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"attraction": attraction,
		"engagement": engagement,
	})
}

func (h *AttractionHandler) update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	var req attractionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	fields, err := req.fields()
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	attraction, err := h.attractions.Update(c.Request().Context(), id, fields)
	if err != nil {
		if errors.Is(err, service.ErrAttractionNotFound) {
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to update attraction"))
	}
	return c.JSON(http.StatusOK, util.Data("attraction", attraction))
}

func (h *AttractionHandler) remove(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	if err := h.attractions.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, service.ErrAttractionNotFound) {
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to delete attraction"))
	}
	return c.JSON(http.StatusOK, util.Deleted())
}

func (h *AttractionHandler) regenerateWeek(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	var req struct {
		TotalTickets int `json:"total_tickets"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	days, err := h.tickets.RegenerateWeek(c.Request().Context(), id, req.TotalTickets)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAttractionNotFound):
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		case errors.Is(err, service.ErrTotalNegative):
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("unable to regenerate tickets"))
		}
	}
	return c.JSON(http.StatusOK, util.Data("tickets", days))
}

func (h *AttractionHandler) uploadImage(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("image file is required"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("unable to read image file"))
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	attraction, err := h.attractions.UploadImage(c.Request().Context(), id, fileHeader.Filename, contentType, file, fileHeader.Size)
	if err != nil {
		if errors.Is(err, service.ErrAttractionNotFound) {
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to store image"))
	}
	return c.JSON(http.StatusOK, util.Data("attraction", attraction))
}

package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scenictrip/backend/internal/service"
	"github.com/scenictrip/backend/internal/util"
)

type AuthHandler struct {
	auth *service.AuthService
}

func RegisterAuth(e *echo.Echo, auth *service.AuthService) {
	handler := &AuthHandler{auth: auth}

	group := e.Group("/api/v1/auth")
	group.POST("/sign-up", handler.signUp)
	group.POST("/login", handler.login)
	group.POST("/logout", handler.logout)
	group.GET("/check-auth", handler.checkAuth, RequireAuth(auth))
}

func (h *AuthHandler) signUp(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	result, err := h.auth.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return c.JSON(http.StatusConflict, util.Error(err.Error()))
		}
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"user":       result.User,
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
	})
}

func (h *AuthHandler) login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		case errors.Is(err, service.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, util.Error(err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("login failed"))
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user":       result.User,
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
	})
}

// logout is stateless: tokens expire on their own and the client drops its
// copy.
func (h *AuthHandler) logout(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (h *AuthHandler) checkAuth(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	return c.JSON(http.StatusOK, util.Data("user", user))
}

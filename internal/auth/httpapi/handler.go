// Package httpapi exposes the auth service over HTTP.
package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/shopkeeper/internal/auth/models"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/httpx"
	"github.com/labstack/echo/v4"
)

// UserService is the part of services.UserService used by the handlers.
type UserService interface {
	Register(ctx context.Context, email, password string, fullName *string) (*models.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	VerifyHeader(ctx context.Context, header string) (*models.AuthClaims, error)
}

type Handler struct {
	users UserService
}

func NewHandler(users UserService) *Handler {
	return &Handler{users: users}
}

// Register mounts the routes on e. The same routes are also served under
// /auth for clients configured with that prefix.
func (h *Handler) Register(e *echo.Echo) {
	for _, prefix := range []string{"", "/auth"} {
		e.POST(prefix+"/register", h.register)
		e.POST(prefix+"/login", h.login)
		e.GET(prefix+"/verify", h.verify)
	}
	e.GET("/health", httpx.Health("auth", nil))
}

type registerRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(c echo.Context) error {
	var req registerRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		return err
	}

	resp, err := h.users.Register(c.Request().Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) login(c echo.Context) error {
	var req loginRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		return err
	}

	resp, err := h.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) verify(c echo.Context) error {
	claims, err := h.users.VerifyHeader(c.Request().Context(), c.Request().Header.Get(common.AuthorizationHeader))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, claims)
}

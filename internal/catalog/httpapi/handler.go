// Package httpapi exposes the catalog over HTTP. Reads are public, writes
// need an admin token and sales accept an optional token.
package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/shopkeeper/internal/catalog/models"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/gateway"
	"github.com/dmitrijs2005/shopkeeper/internal/httpx"
	"github.com/labstack/echo/v4"
)

// ProductService is the part of services.ProductService used by the handlers.
type ProductService interface {
	Create(ctx context.Context, in models.ProductCreate) (*models.Product, error)
	List(ctx context.Context) ([]*models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Update(ctx context.Context, id string, upd models.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	Sell(ctx context.Context, id string) (*models.SellResponse, error)
}

type Handler struct {
	products ProductService
	gw       *gateway.Gateway
	ping     func(ctx context.Context) error
}

// NewHandler builds the handler. ping reports database health and may be nil.
func NewHandler(products ProductService, gw *gateway.Gateway, ping func(ctx context.Context) error) *Handler {
	return &Handler{products: products, gw: gw, ping: ping}
}

func (h *Handler) Register(e *echo.Echo) {
	admin := []echo.MiddlewareFunc{h.gw.Required(), h.gw.RequireRole(common.RoleAdmin)}

	g := e.Group("/products")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create, admin...)
	g.PUT("/:id", h.update, admin...)
	g.DELETE("/:id", h.delete, admin...)
	g.POST("/:id/sell", h.sell, h.gw.Optional())

	e.GET("/health", httpx.Health("catalog", h.health))
}

func (h *Handler) health(c echo.Context) (string, map[string]any) {
	if h.ping == nil {
		return "healthy", nil
	}
	if err := h.ping(c.Request().Context()); err != nil {
		return "degraded", map[string]any{"database": "unavailable"}
	}
	return "healthy", map[string]any{"database": "ok"}
}

func (h *Handler) create(c echo.Context) error {
	var req models.ProductCreate
	if err := httpx.BindJSON(c, &req); err != nil {
		return err
	}
	p, err := h.products.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) list(c echo.Context) error {
	items, err := h.products.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) get(c echo.Context) error {
	p, err := h.products.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) update(c echo.Context) error {
	var req models.ProductUpdate
	if err := httpx.BindJSON(c, &req); err != nil {
		return err
	}
	p, err := h.products.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) delete(c echo.Context) error {
	if err := h.products.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) sell(c echo.Context) error {
	res, err := h.products.Sell(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

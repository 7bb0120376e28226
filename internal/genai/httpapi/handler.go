package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/shopkeeper/internal/genai/models"
	"github.com/dmitrijs2005/shopkeeper/internal/httpx"
	"github.com/labstack/echo/v4"
)

type GenerationService interface {
	Describe(ctx context.Context, req models.DescriptionRequest) (*models.DescriptionResponse, error)
	Categorize(ctx context.Context, req models.CategoryRequest) (*models.CategoryResponse, error)
}

// LLMStatus reports whether any provider is configured and which model
// answers first.
type LLMStatus interface {
	Configured() bool
	Model() string
}

type Handler struct {
	generation GenerationService
	llm        LLMStatus
}

func NewHandler(s GenerationService, st LLMStatus) *Handler {
	return &Handler{generation: s, llm: st}
}

func (h *Handler) Register(e *echo.Echo) {
	e.POST("/generate/description", h.describe)
	e.POST("/generate/category", h.categorize)
	e.GET("/health", httpx.Health("genai", h.health))
}

func (h *Handler) describe(c echo.Context) error {
	var req models.DescriptionRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		return err
	}
	resp, err := h.generation.Describe(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) categorize(c echo.Context) error {
	var req models.CategoryRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		return err
	}
	resp, err := h.generation.Categorize(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) health(echo.Context) (string, map[string]any) {
	configured := h.llm.Configured()
	status := "healthy"
	if !configured {
		status = "degraded"
	}
	return status, map[string]any{"llm_configured": configured, "model": h.llm.Model()}
}

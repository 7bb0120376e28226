// Package httpapi exposes the alert processor as a webhook.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/alerts/processor"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/httpx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/labstack/echo/v4"
)

type Processor interface {
	Process(ctx context.Context, ev processor.Event) (processor.Outcome, error)
}

// AlertResponse is the webhook reply, on success and on failure.
type AlertResponse struct {
	Success       bool      `json:"success"`
	Message       string    `json:"message"`
	Field         string    `json:"field,omitempty"`
	AlertText     string    `json:"alert_text,omitempty"`
	SupplierPrice *float64  `json:"supplier_price,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

type Handler struct {
	processor Processor
	llmReady  bool
	logger    logging.Logger
	now       func() time.Time
}

// NewHandler builds the handler; llmReady is reported by /health.
func NewHandler(p Processor, llmReady bool, logger logging.Logger) *Handler {
	return &Handler{
		processor: p,
		llmReady:  llmReady,
		logger:    logger.With("module", "alerts_http"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) Register(e *echo.Echo) {
	e.POST("/webhook/stock-alert", h.stockAlert)
	e.GET("/health", httpx.Health("alerts", func(echo.Context) (string, map[string]any) {
		return "healthy", map[string]any{"llm_configured": h.llmReady}
	}))
}

func (h *Handler) stockAlert(c echo.Context) error {
	var ev processor.Event
	if err := httpx.BindJSON(c, &ev); err != nil {
		return h.failure(c, err)
	}

	out, err := h.processor.Process(c.Request().Context(), ev)
	if err != nil {
		return h.failure(c, err)
	}

	price := out.SupplierPrice
	return c.JSON(http.StatusOK, AlertResponse{
		Success:       true,
		Message:       "alert processed and logged",
		AlertText:     out.AlertText,
		SupplierPrice: &price,
		Timestamp:     h.now(),
	})
}

// failure renders err with the status of the common taxonomy but in the
// webhook's own shape.
func (h *Handler) failure(c echo.Context, err error) error {
	status := httpx.StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(c.Request().Context(), "stock alert failed", "error", err, "status", status)
	}

	resp := AlertResponse{Success: false, Message: httpx.PublicMessage(err, status), Timestamp: h.now()}
	var ve *common.ValidationError
	if errors.As(err, &ve) {
		resp.Field = ve.Field
	}
	return c.JSON(status, resp)
}

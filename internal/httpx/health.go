package httpx

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Version is reported by every /health endpoint.
const Version = "1.0.0"

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string         `json:"status"`
	Service   string         `json:"service"`
	Version   string         `json:"version"`
	Timestamp string         `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
}

// Health returns a handler reporting "healthy" unless probe says otherwise.
// probe may be nil.
func Health(service string, probe func(c echo.Context) (string, map[string]any)) echo.HandlerFunc {
	return func(c echo.Context) error {
		status, details := "healthy", map[string]any(nil)
		if probe != nil {
			status, details = probe(c)
		}
		return c.JSON(http.StatusOK, HealthResponse{
			Status:    status,
			Service:   service,
			Version:   Version,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Details:   details,
		})
	}
}

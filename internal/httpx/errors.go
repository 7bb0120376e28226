// Package httpx holds the echo plumbing shared by the shopkeeper HTTP
// services: server construction, error mapping, request ids, request logging
// and graceful shutdown.
package httpx

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/labstack/echo/v4"
)

// ErrorBody is the JSON payload of every non-2xx response.
type ErrorBody struct {
	Detail string `json:"detail"`
	Field  string `json:"field,omitempty"`
}

// StatusFor maps the common error taxonomy to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, common.ErrInsufficientStock):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, common.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the client-facing text for err with the given status.
// Unauthorized responses are generic and 5xx bodies carry only the
// sentinel text.
func PublicMessage(err error, status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "could not validate credentials"
	case http.StatusForbidden:
		return "insufficient permissions"
	case http.StatusInternalServerError:
		return common.ErrorInternal.Error()
	case http.StatusBadGateway:
		return common.ErrUpstream.Error()
	case http.StatusServiceUnavailable:
		return common.ErrUnavailable.Error()
	}
	var ve *common.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}

// ErrorHandler renders errors returned by handlers as ErrorBody.
func ErrorHandler(logger logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			status int
			body   ErrorBody
		)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			body.Detail = fmt.Sprint(he.Message)
		} else {
			status = StatusFor(err)
			body.Detail = PublicMessage(err, status)
			var ve *common.ValidationError
			if errors.As(err, &ve) {
				body.Field = ve.Field
			}
		}

		ctx := c.Request().Context()
		if status >= http.StatusInternalServerError {
			logger.Error(ctx, "request failed", "error", err, "status", status, "path", c.Path())
		}

		if status == http.StatusUnauthorized {
			c.Response().Header().Set("WWW-Authenticate", common.BearerScheme)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			logger.Error(ctx, "write error response", "error", werr)
		}
	}
}

// BindJSON decodes the request body into dst, turning decoder failures into
// validation errors.
func BindJSON(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return common.NewValidationError("body", "invalid JSON body")
	}
	return nil
}

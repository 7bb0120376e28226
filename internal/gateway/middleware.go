package gateway

import (
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/labstack/echo/v4"
)

const claimsKey = "auth_claims"

// Required rejects requests without a valid bearer credential.
func (g *Gateway) Required() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			claims, err := g.Authenticate(req.Context(), req.Header.Get(common.AuthorizationHeader))
			if err != nil {
				return err
			}
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// Optional attaches claims when the caller is authenticated and lets every
// request through.
func (g *Gateway) Optional() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if claims := g.AuthenticateOptional(req.Context(), req.Header.Get(common.AuthorizationHeader)); claims != nil {
				c.Set(claimsKey, claims)
			}
			return next(c)
		}
	}
}

// RequireRole must run after Required.
func (g *Gateway) RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := RequireRole(ClaimsFrom(c), role); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims attached by Required or Optional, or nil.
func ClaimsFrom(c echo.Context) *Claims {
	claims, _ := c.Get(claimsKey).(*Claims)
	return claims
}

// Package gateway authenticates inbound requests of the catalog service
// against the auth service. Every protected request costs one round trip to
// the verifier; there is no cache.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
)

// DefaultTimeout bounds a single verification call.
const DefaultTimeout = 5 * time.Second

// Claims is the verified identity of a caller.
type Claims struct {
	UserID   string  `json:"user_id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
	Role     string  `json:"role"`
}

// Verifier asks the auth service who owns token.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

type Gateway struct {
	verifier Verifier
	timeout  time.Duration
	logger   logging.Logger
}

func New(v Verifier, timeout time.Duration, logger logging.Logger) *Gateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{verifier: v, timeout: timeout, logger: logger.With("module", "gateway")}
}

// ExtractBearer returns the token of an Authorization header value, or
// ErrUnauthorized when the header is missing or not a bearer credential.
func ExtractBearer(header string) (string, error) {
	token, reason := common.ParseBearer(header)
	if reason != "" {
		return "", fmt.Errorf("%w: %s", common.ErrUnauthorized, reason)
	}
	return token, nil
}

// Authenticate verifies the credential in header. Any failure, including
// transport errors and timeouts, is reported as ErrUnauthorized.
func (g *Gateway) Authenticate(ctx context.Context, header string) (*Claims, error) {
	token, reason := common.ParseBearer(header)
	if reason != "" {
		g.logger.Info(ctx, "authentication rejected", "reason", reason)
		return nil, common.ErrUnauthorized
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	claims, err := g.verifier.Verify(ctx, token)
	if err != nil {
		g.logger.Warn(ctx, "token verification failed", "error", err)
		return nil, common.ErrUnauthorized
	}
	if claims == nil || claims.UserID == "" {
		g.logger.Warn(ctx, "token verification returned empty claims")
		return nil, common.ErrUnauthorized
	}
	return claims, nil
}

// AuthenticateOptional is Authenticate for routes that also serve anonymous
// callers: every failure yields nil claims and no error.
func (g *Gateway) AuthenticateOptional(ctx context.Context, header string) *Claims {
	if header == "" {
		return nil
	}
	claims, err := g.Authenticate(ctx, header)
	if err != nil {
		return nil
	}
	return claims
}

// RequireRole allows claims whose role equals role exactly.
func RequireRole(claims *Claims, role string) error {
	if claims == nil {
		return common.ErrUnauthorized
	}
	if claims.Role != role {
		return common.ErrForbidden
	}
	return nil
}

package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/shopkeeper/internal/auth/models"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Verify checks the bearer credential from the call metadata and returns
// the claims of its user.
func (s *GRPCServer) Verify(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	claims, err := s.users.VerifyHeader(ctx, authorizationFrom(ctx))
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			return nil, status.Error(codes.Unauthenticated, "could not validate credentials")
		}
		s.logger.Error(ctx, "verify failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	out, err := claimsToStruct(claims)
	if err != nil {
		s.logger.Error(ctx, "encode claims", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}

func claimsToStruct(c *models.AuthClaims) (*structpb.Struct, error) {
	var fullName any
	if c.FullName != nil {
		fullName = *c.FullName
	}
	return structpb.NewStruct(map[string]any{
		"user_id":   c.UserID,
		"username":  c.Username,
		"email":     c.Email,
		"full_name": fullName,
		"role":      c.Role,
	})
}

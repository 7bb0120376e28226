package grpc

import (
	"context"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const authorizationKey ctxKey = "authorization"

// authorizationInterceptor copies the "authorization" metadata value into
// the context. Missing metadata is left for the handler to reject so that
// every failure cause ends in the same status.
func (s *GRPCServer) authorizationInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AuthorizationMDKey); len(values) > 0 {
			header = values[0]
		}
	}
	ctx = context.WithValue(ctx, authorizationKey, header)
	return handler(ctx, req)
}

func authorizationFrom(ctx context.Context) string {
	v, _ := ctx.Value(authorizationKey).(string)
	return v
}

func (s *GRPCServer) recoverInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error(ctx, "panic in grpc handler", "method", info.FullMethod, "panic", p)
			err = status.Error(codes.Internal, "internal error")
		}
	}()
	return handler(ctx, req)
}

// Package grpc serves the TokenVerifier gRPC endpoint of the auth service,
// used by gateways that prefer gRPC over the HTTP /verify route.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/shopkeeper/internal/auth/models"
	"github.com/dmitrijs2005/shopkeeper/internal/authrpc"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"google.golang.org/grpc"
)

// Verifier is the part of services.UserService exposed over gRPC.
type Verifier interface {
	VerifyHeader(ctx context.Context, header string) (*models.AuthClaims, error)
}

type GRPCServer struct {
	address string
	users   Verifier
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, users Verifier) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		users:   users,
	}
}

// newServer builds the grpc.Server with interceptors and the service
// registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.recoverInterceptor, s.authorizationInterceptor))
	authrpc.RegisterVerifierServer(srv, s)
	return srv
}

// Run serves until ctx is done, then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}
	return nil
}

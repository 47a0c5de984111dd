// Package grpc serves the session service and the standard health service.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dmitrijs2005/posterboard/internal/logging"
	"github.com/dmitrijs2005/posterboard/internal/server/auth"
	"github.com/dmitrijs2005/posterboard/internal/server/models"
)

// Users is the part of the user service the gRPC surface needs.
type Users interface {
	Authorize(ctx context.Context, h auth.HeaderGetter) (*models.User, error)
	Logout(ctx context.Context, user *models.User) error
}

type GRPCServer struct {
	address string
	users   Users
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, us Users) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		users:   us,
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.sessionInterceptor))

	RegisterSessionServer(srv, s)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		hs.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}

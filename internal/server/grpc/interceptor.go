package grpc

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/posterboard/internal/common"
	"github.com/dmitrijs2005/posterboard/internal/server/models"
)

type ctxKey string

const userKey ctxKey = "user"

// metadataHeader lets the authorization gate read gRPC metadata the same way
// it reads HTTP headers.
type metadataHeader metadata.MD

func (h metadataHeader) Values(name string) []string {
	return metadata.MD(h).Get(strings.ToLower(name))
}

func userFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}

// authStatus converts gate failures to gRPC status errors.
func authStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrMalformedHeader):
		return status.Error(codes.InvalidArgument, "invalid authorization header")
	case errors.Is(err, common.ErrMissingHeader):
		return status.Error(codes.Unauthenticated, "missing authorization header")
	case errors.Is(err, common.ErrUnknownToken):
		return status.Error(codes.Unauthenticated, "invalid session token")
	case errors.Is(err, common.ErrExpiredSession):
		return status.Error(codes.Unauthenticated, "session expired")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// sessionInterceptor gates every SessionService method. Other services, such
// as health checks, pass through untouched.
func (s *GRPCServer) sessionInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !strings.HasPrefix(info.FullMethod, "/"+ServiceName+"/") {
		return handler(ctx, req)
	}

	md, _ := metadata.FromIncomingContext(ctx)
	user, err := s.users.Authorize(ctx, metadataHeader(md))
	if err != nil {
		st := authStatus(err)
		if status.Code(st) == codes.Internal {
			s.logger.Error(ctx, "authorize failed", "method", info.FullMethod, "error", err)
		}
		return nil, st
	}

	return handler(context.WithValue(ctx, userKey, user), req)
}

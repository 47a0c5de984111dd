package client

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/posterboard/internal/client/models"
	gs "github.com/dmitrijs2005/posterboard/internal/server/grpc"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      *gs.SessionClient
	token       func() string
}

func withBearer(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set("authorization", "Bearer "+token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) authInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.token(); token != "" {
		ctx = withBearer(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient connects lazily to endpointURL. token is consulted on every
// call. Extra dial options are appended after the defaults.
func NewGRPCClient(endpointURL string, token func() string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, token: token}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.authInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = gs.NewSessionClient(conn)
	return c, nil
}

func (s *GRPCClient) WhoAmI(ctx context.Context) (*models.Identity, error) {
	out, err := s.client.WhoAmI(ctx)
	if err != nil {
		return nil, s.mapError(err)
	}
	f := out.GetFields()
	return &models.Identity{
		ID:          f["id"].GetStringValue(),
		Email:       f["email"].GetStringValue(),
		DisplayName: f["display_name"].GetStringValue(),
	}, nil
}

func (s *GRPCClient) Logout(ctx context.Context) error {
	return s.mapError(s.client.Logout(ctx))
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unavailable:
		return ErrUnavailable
	case codes.Unauthenticated:
		return ErrUnauthorized
	default:
		return err
	}
}

// Package grpc carries Swoq game messages over gRPC: a client used as the
// session's channel, and a service registration used by in-process servers.
package grpc

import (
	"context"
	"fmt"

	"github.com/louisbranch/swoq.bot/internal/game"
	"github.com/louisbranch/swoq.bot/internal/transport/swoqpb"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Client calls the Swoq GameService over a gRPC connection.
type Client struct {
	conn  gogrpc.ClientConnInterface
	close func() error
}

// NewClient wraps conn. Close on the returned client closes conn.
func NewClient(conn *gogrpc.ClientConn) *Client {
	return &Client{conn: conn, close: conn.Close}
}

// NewClientFromInterface wraps a connection the caller keeps ownership of.
func NewClientFromInterface(conn gogrpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Start invokes GameService.Start.
func (c *Client) Start(ctx context.Context, req *game.StartRequest) (*game.StartResponse, error) {
	out := swoqpb.NewStartResponse()
	if err := c.conn.Invoke(ctx, swoqpb.StartMethod, swoqpb.EncodeStartRequest(req), out); err != nil {
		return nil, err
	}
	return swoqpb.DecodeStartResponse(out)
}

// Act invokes GameService.Act.
func (c *Client) Act(ctx context.Context, req *game.ActRequest) (*game.ActResponse, error) {
	out := swoqpb.NewActResponse()
	if err := c.conn.Invoke(ctx, swoqpb.ActMethod, swoqpb.EncodeActRequest(req), out); err != nil {
		return nil, err
	}
	return swoqpb.DecodeActResponse(out)
}

// Close releases the underlying connection when the client owns it.
func (c *Client) Close() error {
	if c == nil || c.close == nil {
		return nil
	}
	return c.close()
}

// GameServiceServer handles Swoq game requests on the server side.
type GameServiceServer interface {
	Start(context.Context, *game.StartRequest) (*game.StartResponse, error)
	Act(context.Context, *game.ActRequest) (*game.ActResponse, error)
}

// RegisterGameServiceServer registers srv on s under swoq.interface.GameService.
func RegisterGameServiceServer(s gogrpc.ServiceRegistrar, srv GameServiceServer) {
	s.RegisterService(&gameServiceDesc, srv)
}

var gameServiceDesc = gogrpc.ServiceDesc{
	ServiceName: swoqpb.ServiceName,
	HandlerType: (*GameServiceServer)(nil),
	Methods: []gogrpc.MethodDesc{
		{MethodName: "Start", Handler: startHandler},
		{MethodName: "Act", Handler: actHandler},
	},
	Streams:  []gogrpc.StreamDesc{},
	Metadata: "swoq.proto",
}

func startHandler(srv any, ctx context.Context, dec func(any) error, interceptor gogrpc.UnaryServerInterceptor) (any, error) {
	in := swoqpb.NewStartRequest()
	if err := dec(in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, _ any) (any, error) {
		req, err := swoqpb.DecodeStartRequest(in)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		resp, err := srv.(GameServiceServer).Start(ctx, req)
		if err != nil {
			return nil, err
		}
		if resp == nil {
			return nil, status.Error(codes.Internal, "start response is required")
		}
		return swoqpb.EncodeStartResponse(resp), nil
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	info := &gogrpc.UnaryServerInfo{Server: srv, FullMethod: swoqpb.StartMethod}
	return interceptor(ctx, in, info, handler)
}

func actHandler(srv any, ctx context.Context, dec func(any) error, interceptor gogrpc.UnaryServerInterceptor) (any, error) {
	in := swoqpb.NewActRequest()
	if err := dec(in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, _ any) (any, error) {
		req, err := swoqpb.DecodeActRequest(in)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		resp, err := srv.(GameServiceServer).Act(ctx, req)
		if err != nil {
			return nil, err
		}
		if resp == nil {
			return nil, status.Error(codes.Internal, fmt.Sprintf("act response for game %q is required", req.GameID))
		}
		return swoqpb.EncodeActResponse(resp), nil
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	info := &gogrpc.UnaryServerInfo{Server: srv, FullMethod: swoqpb.ActMethod}
	return interceptor(ctx, in, info, handler)
}

package grpc

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// UserAgent identifies this client to game servers.
const UserAgent = "swoq-bot-go"

// Dialer describes the gRPC dial behavior used by helpers.
type Dialer interface {
	DialContext(ctx context.Context, addr string, opts ...gogrpc.DialOption) (*gogrpc.ClientConn, error)
}

// DialerFunc adapts a dial function to the Dialer interface.
type DialerFunc func(ctx context.Context, addr string, opts ...gogrpc.DialOption) (*gogrpc.ClientConn, error)

// DialContext implements Dialer for DialerFunc.
func (fn DialerFunc) DialContext(ctx context.Context, addr string, opts ...gogrpc.DialOption) (*gogrpc.ClientConn, error) {
	return fn(ctx, addr, opts...)
}

// DialStage describes where a dial attempt failed.
type DialStage string

const (
	// DialStageConnect indicates a dial connection failure.
	DialStageConnect DialStage = "connect"
	// DialStageHealth indicates the health check failed.
	DialStageHealth DialStage = "health"
)

// DialError wraps dial and health check failures with a stage indicator.
type DialError struct {
	Stage DialStage
	Err   error
}

// Error implements the error interface.
func (e *DialError) Error() string {
	if e == nil {
		return "gRPC dial error"
	}
	return fmt.Sprintf("gRPC %s error: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *DialError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DialOptions controls Dial.
type DialOptions struct {
	// Dialer overrides grpc.DialContext.
	Dialer Dialer
	// Timeout bounds both the connect and the health stage.
	Timeout time.Duration
	// WaitForHealth polls grpc.health.v1 until SERVING before returning.
	// Game servers that do not expose the health service leave it off.
	WaitForHealth bool
	// HealthService names the service checked; empty checks the server.
	HealthService string
	// Logf receives progress messages; nil discards them.
	Logf func(string, ...any)
}

// DefaultClientDialOptions returns standard dial options for game server
// clients. Dials block until the connection is up, so an unreachable host
// fails at dial time rather than on the first call, and the OTel stats
// handler propagates trace context on every call.
func DefaultClientDialOptions() []gogrpc.DialOption {
	return []gogrpc.DialOption{
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithBlock(),
		gogrpc.WithUserAgent(UserAgent),
		gogrpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}
}

// Dial connects to addr and, when requested, waits for the health check to
// serve. It closes the connection if the health check fails.
func Dial(ctx context.Context, addr string, options DialOptions, opts ...gogrpc.DialOption) (*gogrpc.ClientConn, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	dialer := options.Dialer
	if dialer == nil {
		dialer = DialerFunc(gogrpc.DialContext)
	}

	dialCtx := ctx
	if options.Timeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	conn, err := dialer.DialContext(dialCtx, addr, opts...)
	if err != nil {
		return nil, &DialError{Stage: DialStageConnect, Err: err}
	}
	if !options.WaitForHealth {
		return conn, nil
	}
	if err := WaitForHealth(dialCtx, conn, options.HealthService, options.Logf); err != nil {
		_ = conn.Close()
		return nil, &DialError{Stage: DialStageHealth, Err: err}
	}
	return conn, nil
}

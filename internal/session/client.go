package session

import (
	"context"
	"sync"

	"github.com/louisbranch/swoq.bot/internal/game"
	apperrors "github.com/louisbranch/swoq.bot/internal/platform/errors"
	platformgrpc "github.com/louisbranch/swoq.bot/internal/platform/grpc"
	"github.com/louisbranch/swoq.bot/internal/replay"
	transportgrpc "github.com/louisbranch/swoq.bot/internal/transport/grpc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Channel is the request/response transport to a game server. The gRPC
// client in internal/transport/grpc implements it.
type Channel interface {
	Start(ctx context.Context, req *game.StartRequest) (*game.StartResponse, error)
	Act(ctx context.Context, req *game.ActRequest) (*game.ActResponse, error)
	Close() error
}

// Client owns a channel until Start hands it to a Game.
type Client struct {
	cfg  Config
	opts options

	mu        sync.Mutex
	ch        Channel
	starting  bool
	handedOff bool
	closed    bool
}

// Connect validates cfg and dials the game server.
func Connect(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	o := newOptions(opts)
	cfg, err := prepare(cfg)
	if err != nil {
		return nil, err
	}

	dialOpts := append(platformgrpc.DefaultClientDialOptions(), o.dialOptions...)
	conn, err := platformgrpc.Dial(ctx, cfg.Host, platformgrpc.DialOptions{
		Dialer:        o.dialer,
		Timeout:       cfg.DialTimeout,
		WaitForHealth: cfg.WaitForHealth,
		Logf:          o.logf,
	}, dialOpts...)
	if err != nil {
		e := apperrors.Wrap(apperrors.CodeUnreachable, "game server unreachable", err)
		e.Metadata = map[string]string{MetadataHost: cfg.Host}
		return nil, e
	}
	return &Client{cfg: cfg, opts: o, ch: transportgrpc.NewClient(conn)}, nil
}

// NewClient validates cfg and wraps an existing channel.
func NewClient(cfg Config, ch Channel, opts ...Option) (*Client, error) {
	if ch == nil {
		return nil, invalidConfig("channel", "channel is required")
	}
	cfg, err := prepare(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{cfg: cfg, opts: newOptions(opts), ch: ch}, nil
}

// Config returns the validated configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Start asks the server for a new game. It sends exactly one request; a
// rejected or failed start leaves the client ready for another attempt.
// On success the channel belongs to the returned Game.
func (c *Client) Start(ctx context.Context, req game.StartRequest) (*Game, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.mu.Lock()
	switch {
	case c.handedOff:
		c.mu.Unlock()
		return nil, ErrChannelHandedOff
	case c.closed:
		c.mu.Unlock()
		return nil, apperrors.New(apperrors.CodeStartTransport, "start failed: client closed")
	case c.starting:
		c.mu.Unlock()
		return nil, ErrStartInProgress
	}
	c.starting = true
	ch := c.ch
	c.mu.Unlock()

	g, err := c.start(ctx, ch, req)

	c.mu.Lock()
	c.starting = false
	if err == nil && c.closed {
		c.mu.Unlock()
		_ = g.Close(ctx)
		return nil, apperrors.New(apperrors.CodeStartTransport, "start failed: client closed")
	}
	if err == nil {
		c.handedOff = true
		c.ch = nil
	}
	c.mu.Unlock()
	return g, err
}

func (c *Client) start(ctx context.Context, ch Channel, req game.StartRequest) (*Game, error) {
	ctx, span := c.opts.tracer.Start(ctx, "swoq.Start")
	defer span.End()

	wire := &game.StartRequest{
		UserID:   c.cfg.UserID,
		UserName: c.cfg.UserName,
		Level:    req.Level,
		Seed:     req.Seed,
	}
	if wire.Level != nil {
		span.SetAttributes(attribute.Int("swoq.level", int(*wire.Level)))
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.TurnTimeout)
	resp, err := ch.Start(callCtx, wire)
	cancel()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "start transport")
		return nil, apperrors.WrapTransport(apperrors.CodeStartTransport, "start failed", err)
	}
	if resp == nil {
		span.SetStatus(codes.Error, "empty start response")
		return nil, malformedStart("", "empty response")
	}
	span.SetAttributes(attribute.String("swoq.start_result", resp.Result.String()))
	if resp.Result != game.StartResultOK {
		span.SetStatus(codes.Error, resp.Result.String())
		return nil, startRejected(resp.Result)
	}
	if err := checkStartResponse(resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed start response")
		return nil, err
	}
	span.SetAttributes(attribute.String("swoq.game_id", resp.GameID))

	var rec Recorder
	if c.cfg.ReplaysFolder != "" {
		meta := replay.Metadata{UserName: c.cfg.UserName, Request: wire, Response: resp, Now: c.opts.now()}
		opened, err := c.opts.recorders(c.cfg.ReplaysFolder, meta)
		if err != nil {
			c.opts.logf("replay disabled for game %s: %v", resp.GameID, err)
		} else {
			rec = opened
		}
	}
	return newGame(c.cfg, c.opts, ch, resp, rec), nil
}

func checkStartResponse(resp *game.StartResponse) error {
	switch {
	case resp.GameID == "":
		return malformedStart("", "missing game id")
	case resp.State == nil:
		return malformedStart(resp.GameID, "missing state")
	case resp.MapWidth <= 0 || resp.MapHeight <= 0:
		return malformedStart(resp.GameID, "map size must be positive")
	case resp.VisibilityRange < 0:
		return malformedStart(resp.GameID, "visibility range must not be negative")
	}
	return nil
}

// Close closes the channel unless a Game owns it. It is safe to call more
// than once.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.handedOff || c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	ch := c.ch
	c.ch = nil
	c.mu.Unlock()
	return ch.Close()
}

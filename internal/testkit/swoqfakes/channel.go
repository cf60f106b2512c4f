// Package swoqfakes provides fake game servers for tests: an in-memory
// channel with call accounting and a real gRPC server on a loopback port.
package swoqfakes

import (
	"context"
	"sync"

	"github.com/louisbranch/swoq.bot/internal/game"
)

// Channel is a scripted in-memory transport. Nil funcs answer with an OK
// start and a one-tick advance.
type Channel struct {
	StartFunc func(ctx context.Context, req *game.StartRequest) (*game.StartResponse, error)
	ActFunc   func(ctx context.Context, req *game.ActRequest) (*game.ActResponse, error)
	CloseErr  error

	mu            sync.Mutex
	startRequests []game.StartRequest
	actRequests   []game.ActRequest
	inFlight      int
	maxInFlight   int
	closeCalls    int
	tick          int32
}

// Start records req and delegates to StartFunc.
func (c *Channel) Start(ctx context.Context, req *game.StartRequest) (*game.StartResponse, error) {
	c.mu.Lock()
	c.startRequests = append(c.startRequests, *req)
	c.mu.Unlock()
	if c.StartFunc != nil {
		return c.StartFunc(ctx, req)
	}
	return StartOK("game-1", req.Seed), nil
}

// Act records req, tracks concurrency and delegates to ActFunc.
func (c *Channel) Act(ctx context.Context, req *game.ActRequest) (*game.ActResponse, error) {
	c.mu.Lock()
	c.actRequests = append(c.actRequests, *req)
	c.inFlight++
	if c.inFlight > c.maxInFlight {
		c.maxInFlight = c.inFlight
	}
	c.tick++
	tick := c.tick
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight--
		c.mu.Unlock()
	}()
	if c.ActFunc != nil {
		return c.ActFunc(ctx, req)
	}
	return &game.ActResponse{Result: game.ActResultOK, State: StateAt(tick, game.StatusActive)}, nil
}

// Close counts calls and returns CloseErr.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeCalls++
	return c.CloseErr
}

// StartCalls returns how many Start requests were sent.
func (c *Channel) StartCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.startRequests)
}

// StartRequests returns a copy of the Start requests sent.
func (c *Channel) StartRequests() []game.StartRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]game.StartRequest(nil), c.startRequests...)
}

// ActCalls returns how many Act requests were sent.
func (c *Channel) ActCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.actRequests)
}

// ActRequests returns a copy of the Act requests sent.
func (c *Channel) ActRequests() []game.ActRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]game.ActRequest(nil), c.actRequests...)
}

// MaxInFlight returns the highest number of concurrent Act calls observed.
func (c *Channel) MaxInFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxInFlight
}

// CloseCalls returns how many times Close was called.
func (c *Channel) CloseCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeCalls
}

// StartOK returns a successful start response for an 8x6 map at tick 0.
// A nil seed is answered with seed 7.
func StartOK(gameID string, seed *int32) *game.StartResponse {
	effective := int32(7)
	if seed != nil {
		effective = *seed
	}
	return &game.StartResponse{
		Result:          game.StartResultOK,
		GameID:          gameID,
		MapWidth:        8,
		MapHeight:       6,
		VisibilityRange: 2,
		State:           StateAt(0, game.StatusActive),
		Seed:            game.Int32(effective),
	}
}

// StateAt returns a one-player snapshot at tick.
func StateAt(tick int32, status game.Status) *game.State {
	return &game.State{
		Tick:   tick,
		Level:  1,
		Status: status,
		Player: &game.PlayerState{
			Position: &game.Position{X: 1, Y: 1},
			Health:   5,
		},
	}
}

package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/louisbranch/swoq.bot/internal/game"
	apperrors "github.com/louisbranch/swoq.bot/internal/platform/errors"
	"github.com/louisbranch/swoq.bot/internal/platform/timeouts"
	"github.com/louisbranch/swoq.bot/internal/replay"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Phase is the lifecycle state of a Game.
type Phase int

const (
	// PhaseActive accepts actions.
	PhaseActive Phase = iota + 1
	// PhaseTerminal is absorbing: the game reached a terminal status or was
	// closed.
	PhaseTerminal
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Game is one running game. Act may be called from any goroutine, but only
// one turn is in flight at a time.
type Game struct {
	cfg  Config
	opts options
	ch   Channel

	gameID          string
	seed            *int32
	mapWidth        int32
	mapHeight       int32
	visibilityRange int32

	// turn is held for the whole exchange; a second Act fails fast on TryLock.
	turn sync.Mutex

	mu       sync.RWMutex
	state    *game.State
	phase    Phase
	closed   bool
	recorder Recorder

	closeOnce sync.Once
	closeErr  error
}

func newGame(cfg Config, opts options, ch Channel, resp *game.StartResponse, rec Recorder) *Game {
	g := &Game{
		cfg:             cfg,
		opts:            opts,
		ch:              ch,
		gameID:          resp.GameID,
		mapWidth:        resp.MapWidth,
		mapHeight:       resp.MapHeight,
		visibilityRange: resp.VisibilityRange,
		state:           resp.State.Clone(),
		phase:           PhaseActive,
		recorder:        rec,
	}
	if resp.Seed != nil {
		seed := *resp.Seed
		g.seed = &seed
	}
	if g.state.Status.Terminal() {
		g.phase = PhaseTerminal
		g.finalizeRecorder(context.Background())
	}
	return g
}

// GameID returns the server-assigned game id.
func (g *Game) GameID() string { return g.gameID }

// Seed returns the effective seed echoed by the server, or nil.
func (g *Game) Seed() *int32 {
	if g.seed == nil {
		return nil
	}
	seed := *g.seed
	return &seed
}

// MapWidth returns the map width in tiles.
func (g *Game) MapWidth() int32 { return g.mapWidth }

// MapHeight returns the map height in tiles.
func (g *Game) MapHeight() int32 { return g.mapHeight }

// VisibilityRange returns how far the player sees.
func (g *Game) VisibilityRange() int32 { return g.visibilityRange }

// State returns a copy of the current snapshot.
func (g *Game) State() *game.State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state.Clone()
}

// Status returns the status of the current snapshot.
func (g *Game) Status() game.Status {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state.Status
}

// Phase returns the lifecycle phase.
func (g *Game) Phase() Phase {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.phase
}

// Active reports whether the game accepts actions.
func (g *Game) Active() bool {
	return g.Phase() == PhaseActive
}

// Act sends one action and applies the server's answer.
//
// Transport failures and protocol violations leave the state unchanged; a
// protocol violation also ends the game. A non-OK result with a valid state
// still applies the state, then returns ErrActRejected. A non-OK result
// without a state returns ErrActRejected with the state unchanged, and ends
// the game when the server reports it finished or unknown. When the game ends
// the replay is finalized before Act returns.
func (g *Game) Act(ctx context.Context, action game.Action) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !g.Active() {
		return ErrSessionTerminated
	}
	if !g.turn.TryLock() {
		return ErrTurnInProgress
	}
	defer g.turn.Unlock()

	g.mu.RLock()
	phase := g.phase
	previous := g.state.Tick
	g.mu.RUnlock()
	if phase != PhaseActive {
		return ErrSessionTerminated
	}
	if !action.Valid() {
		return apperrors.WithMetadata(apperrors.CodeInvalidAction,
			fmt.Sprintf("invalid action %d", int32(action)),
			map[string]string{MetadataGameID: g.gameID})
	}

	ctx, span := g.opts.tracer.Start(ctx, "swoq.Act", trace.WithAttributes(
		attribute.String("swoq.game_id", g.gameID),
		attribute.String("swoq.action", action.String()),
		attribute.Int("swoq.previous_tick", int(previous)),
	))
	defer span.End()

	callCtx, cancel := context.WithTimeout(ctx, g.cfg.TurnTimeout)
	resp, err := g.ch.Act(callCtx, &game.ActRequest{GameID: g.gameID, Action: action})
	cancel()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "act transport")
		e := apperrors.WrapTransport(apperrors.CodeActTransport, "act failed", err)
		if e.Metadata == nil {
			e.Metadata = make(map[string]string, 1)
		}
		e.Metadata[MetadataGameID] = g.gameID
		return e
	}
	if resp != nil && resp.State == nil && resp.Result != game.ActResultOK {
		span.SetStatus(codes.Error, resp.Result.String())
		if gameOver(resp.Result) {
			g.opts.logf("game %s is over on the server: %s", g.gameID, resp.Result)
			g.terminate(ctx)
		}
		return actRejected(g.gameID, resp.Result, previous)
	}
	if resp == nil || resp.State == nil {
		span.SetStatus(codes.Error, "missing state")
		g.terminate(ctx)
		return protocolViolation(g.gameID, "act response carries no state", nil)
	}
	if resp.State.Tick < previous {
		span.SetStatus(codes.Error, "tick regression")
		g.terminate(ctx)
		return protocolViolation(g.gameID,
			fmt.Sprintf("tick went back from %d to %d", previous, resp.State.Tick),
			map[string]string{
				MetadataTick:         strconv.Itoa(int(resp.State.Tick)),
				MetadataPreviousTick: strconv.Itoa(int(previous)),
			})
	}

	next := resp.State.Clone()
	terminal := next.Status.Terminal()

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		span.SetStatus(codes.Error, "closed")
		return apperrors.WithMetadata(apperrors.CodeActTransport, "act failed: session closed", map[string]string{MetadataGameID: g.gameID})
	}
	g.state = next
	if terminal {
		g.phase = PhaseTerminal
	}
	rec := g.recorder
	if rec != nil {
		rec.Record(replay.Entry{Tick: next.Tick, Action: action, Result: resp.Result, State: next})
	}
	g.mu.Unlock()

	span.SetAttributes(
		attribute.Int("swoq.tick", int(next.Tick)),
		attribute.String("swoq.act_result", resp.Result.String()),
		attribute.String("swoq.status", next.Status.String()),
	)

	if terminal {
		g.opts.logf("game %s ended at tick %d: %s", g.gameID, next.Tick, next.Status)
		g.finalizeRecorder(ctx)
	}
	if g.opts.observer != nil {
		g.opts.observer(Turn{Tick: next.Tick, Action: action, Result: resp.Result, Status: next.Status})
	}
	if resp.Result != game.ActResultOK {
		span.SetStatus(codes.Error, resp.Result.String())
		return actRejected(g.gameID, resp.Result, next.Tick)
	}
	return nil
}

// Close ends the game locally: the replay is finalized and the channel is
// closed. A turn in flight resolves to ErrActTransport. Later calls return
// the first result.
func (g *Game) Close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	g.closeOnce.Do(func() {
		g.mu.Lock()
		g.closed = true
		g.phase = PhaseTerminal
		g.mu.Unlock()

		var errs []error
		if err := g.finalizeRecorder(ctx); err != nil {
			errs = append(errs, err)
		}
		if err := g.ch.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
		g.closeErr = errors.Join(errs...)
	})
	return g.closeErr
}

// gameOver reports whether a stateless result means the server no longer
// knows this game.
func gameOver(result game.ActResult) bool {
	return result == game.ActResultGameFinished || result == game.ActResultUnknownGameID
}

// terminate moves the game to PhaseTerminal keeping the last good state.
func (g *Game) terminate(ctx context.Context) {
	g.mu.Lock()
	g.phase = PhaseTerminal
	g.mu.Unlock()
	g.finalizeRecorder(ctx)
}

// finalizeRecorder flushes the replay. Recorder errors are logged and never
// reach Act callers.
func (g *Game) finalizeRecorder(ctx context.Context) error {
	g.mu.RLock()
	rec := g.recorder
	g.mu.RUnlock()
	if rec == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.ReplayFinalize)
	defer cancel()
	if err := rec.Finalize(ctx); err != nil {
		g.opts.logf("replay for game %s: %v", g.gameID, err)
		return fmt.Errorf("finalize replay: %w", err)
	}
	return nil
}

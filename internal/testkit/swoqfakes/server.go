package swoqfakes

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/louisbranch/swoq.bot/internal/game"
	"github.com/louisbranch/swoq.bot/internal/random"
	transportgrpc "github.com/louisbranch/swoq.bot/internal/transport/grpc"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// ReasonUnknownGame is the ErrorInfo reason sent for unknown game ids.
const ReasonUnknownGame = "UNKNOWN_GAME_ID"

// Server is a small authoritative game server. The player starts in the
// north-west corner of an empty walled map and moves one tile per action.
type Server struct {
	Width      int32
	Height     int32
	Visibility int32
	// TerminalAfter ends every game with TerminalStatus at this tick; zero
	// never ends a game.
	TerminalAfter  int32
	TerminalStatus game.Status
	// QueuedStarts answers this many Start calls with START_RESULT_QUEST_QUEUED.
	QueuedStarts int
	// Users lists the known user ids; nil accepts anyone.
	Users map[string]bool

	mu     sync.Mutex
	games  map[string]*game.State
	starts int
	acts   int
}

// NewServer returns a server for a 10x8 map with visibility 2.
func NewServer() *Server {
	return &Server{Width: 10, Height: 8, Visibility: 2, TerminalStatus: game.StatusSuccess}
}

// Start creates a game.
func (s *Server) Start(_ context.Context, req *game.StartRequest) (*game.StartResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.starts++

	if s.Users != nil && !s.Users[req.UserID] {
		return &game.StartResponse{Result: game.StartResultUnknownUser}, nil
	}
	if s.QueuedStarts > 0 {
		s.QueuedStarts--
		return &game.StartResponse{Result: game.StartResultQuestQueued}, nil
	}

	seed := req.Seed
	if seed == nil {
		generated, err := random.NewSeed()
		if err != nil {
			return nil, status.Errorf(codes.Internal, "generate seed: %v", err)
		}
		seed = &generated
	}
	var level int32
	if req.Level != nil {
		level = *req.Level
	}

	state := &game.State{
		Level:  level,
		Status: game.StatusActive,
		Player: &game.PlayerState{Position: &game.Position{}, Health: 5},
	}
	state.Player.Surroundings = s.surroundings(state.Player.Position)

	gameID := uuid.NewString()
	if s.games == nil {
		s.games = make(map[string]*game.State)
	}
	s.games[gameID] = state

	return &game.StartResponse{
		Result:          game.StartResultOK,
		GameID:          gameID,
		MapWidth:        s.Width,
		MapHeight:       s.Height,
		VisibilityRange: s.Visibility,
		State:           state.Clone(),
		Seed:            game.Int32(*seed),
	}, nil
}

// Act advances a game by one tick.
func (s *Server) Act(_ context.Context, req *game.ActRequest) (*game.ActResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acts++

	current, ok := s.games[req.GameID]
	if !ok {
		st, err := status.New(codes.NotFound, fmt.Sprintf("game %q not found", req.GameID)).
			WithDetails(&errdetails.ErrorInfo{Reason: ReasonUnknownGame, Domain: "swoq"})
		if err != nil {
			return nil, status.Errorf(codes.NotFound, "game %q not found", req.GameID)
		}
		return nil, st.Err()
	}
	if current.Status.Terminal() {
		return &game.ActResponse{Result: game.ActResultGameFinished, State: current.Clone()}, nil
	}

	next := current.Clone()
	next.Tick++
	result := game.ActResultOK
	switch req.Action {
	case game.ActionNone:
	case game.ActionMoveNorth, game.ActionMoveEast, game.ActionMoveSouth, game.ActionMoveWest:
		pos := step(*next.Player.Position, req.Action)
		if pos.X < 0 || pos.Y < 0 || pos.X >= s.Width || pos.Y >= s.Height {
			result = game.ActResultMoveNotAllowed
		} else {
			next.Player.Position = &pos
		}
	default:
		result = game.ActResultUseNotAllowed
	}
	next.Player.Surroundings = s.surroundings(next.Player.Position)
	if s.TerminalAfter > 0 && next.Tick >= s.TerminalAfter {
		next.Status = s.TerminalStatus
	}
	s.games[req.GameID] = next

	return &game.ActResponse{Result: result, State: next.Clone()}, nil
}

// Counts returns the number of Start and Act calls served.
func (s *Server) Counts() (starts, acts int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts, s.acts
}

func (s *Server) surroundings(center *game.Position) []game.Tile {
	size := 2*s.Visibility + 1
	tiles := make([]game.Tile, 0, size*size)
	for dy := -s.Visibility; dy <= s.Visibility; dy++ {
		for dx := -s.Visibility; dx <= s.Visibility; dx++ {
			x, y := center.X+dx, center.Y+dy
			switch {
			case x < 0 || y < 0 || x >= s.Width || y >= s.Height:
				tiles = append(tiles, game.TileWall)
			case dx == 0 && dy == 0:
				tiles = append(tiles, game.TilePlayer)
			default:
				tiles = append(tiles, game.TileEmpty)
			}
		}
	}
	return tiles
}

func step(pos game.Position, action game.Action) game.Position {
	switch action {
	case game.ActionMoveNorth:
		pos.Y--
	case game.ActionMoveEast:
		pos.X++
	case game.ActionMoveSouth:
		pos.Y++
	case game.ActionMoveWest:
		pos.X--
	}
	return pos
}

// Running is a Server listening on a loopback port.
type Running struct {
	Addr string

	grpcServer *gogrpc.Server
	health     *health.Server
	listener   net.Listener
	serveErr   chan error
}

// Listen serves srv on 127.0.0.1 with the gRPC health service reporting
// SERVING.
func Listen(srv transportgrpc.GameServiceServer) (*Running, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}
	grpcServer := gogrpc.NewServer()
	transportgrpc.RegisterGameServiceServer(grpcServer, srv)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	running := &Running{
		Addr:       listener.Addr().String(),
		grpcServer: grpcServer,
		health:     healthServer,
		listener:   listener,
		serveErr:   make(chan error, 1),
	}
	go func() {
		running.serveErr <- grpcServer.Serve(listener)
	}()
	return running, nil
}

// SetServing flips the health status.
func (r *Running) SetServing(serving bool) {
	next := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		next = grpc_health_v1.HealthCheckResponse_SERVING
	}
	r.health.SetServingStatus("", next)
}

// Stop stops the server and waits for Serve to return.
func (r *Running) Stop() {
	r.grpcServer.Stop()
	_ = r.listener.Close()
	<-r.serveErr
}

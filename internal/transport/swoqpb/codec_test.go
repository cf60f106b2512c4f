package swoqpb

import (
	"testing"
	"time"

	"github.com/louisbranch/swoq.bot/internal/game"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

func TestFileDeclaresGameService(t *testing.T) {
	svc := File().Services().ByName("GameService")
	if svc == nil {
		t.Fatal("expected GameService in schema")
	}
	if got := string(svc.FullName()); got != ServiceName {
		t.Fatalf("service name = %q, want %q", got, ServiceName)
	}
	for _, name := range []protoreflect.Name{"Start", "Act"} {
		if svc.Methods().ByName(name) == nil {
			t.Fatalf("expected method %s", name)
		}
	}
}

func TestStartRequestKeepsOptionalPresence(t *testing.T) {
	wire := roundTrip(t, EncodeStartRequest(&game.StartRequest{
		UserID:   "user-1",
		UserName: "Ada",
		Seed:     game.Int32(0),
	}), NewStartRequest())

	req, err := DecodeStartRequest(wire)
	if err != nil {
		t.Fatalf("decode start request: %v", err)
	}
	if req.UserID != "user-1" || req.UserName != "Ada" {
		t.Fatalf("identity = %q/%q, want user-1/Ada", req.UserID, req.UserName)
	}
	if req.Level != nil {
		t.Fatalf("level = %d, want unset", *req.Level)
	}
	if req.Seed == nil || *req.Seed != 0 {
		t.Fatalf("seed = %v, want explicit zero", req.Seed)
	}
}

func TestStartResponseCarriesStateAndSeed(t *testing.T) {
	wire := roundTrip(t, EncodeStartResponse(&game.StartResponse{
		Result:          game.StartResultOK,
		GameID:          "game-1",
		MapWidth:        64,
		MapHeight:       48,
		VisibilityRange: 4,
		Seed:            game.Int32(42),
		State: &game.State{
			Tick:   1,
			Level:  3,
			Status: game.StatusActive,
			Player: &game.PlayerState{
				Position:     &game.Position{X: 5, Y: 6},
				Surroundings: []game.Tile{game.TileWall, game.TileEmpty, game.TileExit},
				Health:       5,
				Inventory:    game.InventoryKeyRed,
				HasSword:     true,
			},
		},
	}), NewStartResponse())

	resp, err := DecodeStartResponse(wire)
	if err != nil {
		t.Fatalf("decode start response: %v", err)
	}
	if resp.GameID != "game-1" {
		t.Fatalf("game id = %q, want game-1", resp.GameID)
	}
	if resp.Seed == nil || *resp.Seed != 42 {
		t.Fatalf("seed = %v, want 42", resp.Seed)
	}
	if resp.MapWidth != 64 || resp.MapHeight != 48 || resp.VisibilityRange != 4 {
		t.Fatalf("dimensions = %dx%d/%d", resp.MapWidth, resp.MapHeight, resp.VisibilityRange)
	}
	if resp.State == nil || resp.State.Level != 3 || resp.State.Tick != 1 {
		t.Fatalf("state = %+v", resp.State)
	}
	player := resp.State.Player
	if player == nil || player.Position == nil || player.Position.X != 5 || player.Position.Y != 6 {
		t.Fatalf("player = %+v", player)
	}
	if len(player.Surroundings) != 3 || player.Surroundings[2] != game.TileExit {
		t.Fatalf("surroundings = %v", player.Surroundings)
	}
	if !player.HasSword || player.Inventory != game.InventoryKeyRed {
		t.Fatalf("player items = %+v", player)
	}
	if resp.State.Player2 != nil {
		t.Fatal("expected no second player")
	}
}

func TestActRequestEncodesNoneExplicitly(t *testing.T) {
	msg := EncodeActRequest(&game.ActRequest{GameID: "g", Action: game.ActionNone})
	if !msg.Has(msg.Descriptor().Fields().ByName("action")) {
		t.Fatal("expected action presence for ActionNone")
	}

	req, err := DecodeActRequest(roundTrip(t, msg, NewActRequest()))
	if err != nil {
		t.Fatalf("decode act request: %v", err)
	}
	if req.Action != game.ActionNone || req.GameID != "g" {
		t.Fatalf("request = %+v", req)
	}
}

func TestActResponseWithoutState(t *testing.T) {
	resp, err := DecodeActResponse(roundTrip(t, EncodeActResponse(&game.ActResponse{
		Result: game.ActResultUnknownGameID,
	}), NewActResponse()))
	if err != nil {
		t.Fatalf("decode act response: %v", err)
	}
	if resp.Result != game.ActResultUnknownGameID {
		t.Fatalf("result = %s, want %s", resp.Result, game.ActResultUnknownGameID)
	}
	if resp.State != nil {
		t.Fatalf("state = %+v, want nil", resp.State)
	}
}

func TestReplayHeaderDateTime(t *testing.T) {
	at := time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC)
	header, err := DecodeReplayHeader(EncodeReplayHeader(&game.ReplayHeader{UserName: "Ada", DateTime: at}))
	if err != nil {
		t.Fatalf("decode header: %v", err)
	}
	if !header.DateTime.Equal(at) {
		t.Fatalf("date time = %v, want %v", header.DateTime, at)
	}
}

func TestDecodeRejectsOtherMessages(t *testing.T) {
	if _, err := DecodeActResponse(NewStartResponse()); err == nil {
		t.Fatal("expected descriptor mismatch error")
	}
	if _, err := DecodeStartRequest(nil); err == nil {
		t.Fatal("expected nil message error")
	}
}

func roundTrip(t *testing.T, in proto.Message, out proto.Message) proto.Message {
	t.Helper()
	data, err := proto.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := proto.Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}

package swoqpb

import (
	"fmt"
	"time"

	"github.com/louisbranch/swoq.bot/internal/game"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// NewStartRequest returns an empty StartRequest message to decode into.
func NewStartRequest() *dynamicpb.Message { return dynamicpb.NewMessage(startRequestDesc) }

// NewStartResponse returns an empty StartResponse message to decode into.
func NewStartResponse() *dynamicpb.Message { return dynamicpb.NewMessage(startResponseDesc) }

// NewActRequest returns an empty ActRequest message to decode into.
func NewActRequest() *dynamicpb.Message { return dynamicpb.NewMessage(actRequestDesc) }

// NewActResponse returns an empty ActResponse message to decode into.
func NewActResponse() *dynamicpb.Message { return dynamicpb.NewMessage(actResponseDesc) }

// NewReplayHeader returns an empty ReplayHeader message to decode into.
func NewReplayHeader() *dynamicpb.Message { return dynamicpb.NewMessage(replayHeaderDesc) }

// EncodeStartRequest converts req to its wire message.
func EncodeStartRequest(req *game.StartRequest) *dynamicpb.Message {
	m := NewStartRequest()
	if req == nil {
		return m
	}
	setString(m, "userId", req.UserID)
	setString(m, "userName", req.UserName)
	setOptionalInt32(m, "level", req.Level)
	setOptionalInt32(m, "seed", req.Seed)
	return m
}

// DecodeStartRequest converts a StartRequest wire message.
func DecodeStartRequest(msg proto.Message) (*game.StartRequest, error) {
	m, err := reflectAs(msg, startRequestDesc)
	if err != nil {
		return nil, err
	}
	return &game.StartRequest{
		UserID:   getString(m, "userId"),
		UserName: getString(m, "userName"),
		Level:    getOptionalInt32(m, "level"),
		Seed:     getOptionalInt32(m, "seed"),
	}, nil
}

// EncodeStartResponse converts resp to its wire message.
func EncodeStartResponse(resp *game.StartResponse) *dynamicpb.Message {
	m := NewStartResponse()
	if resp == nil {
		return m
	}
	setEnum(m, "result", int32(resp.Result))
	if resp.GameID != "" {
		m.Set(fieldOf(m, "gameId"), protoreflect.ValueOfString(resp.GameID))
		m.Set(fieldOf(m, "mapWidth"), protoreflect.ValueOfInt32(resp.MapWidth))
		m.Set(fieldOf(m, "mapHeight"), protoreflect.ValueOfInt32(resp.MapHeight))
		m.Set(fieldOf(m, "visibilityRange"), protoreflect.ValueOfInt32(resp.VisibilityRange))
	}
	setOptionalInt32(m, "seed", resp.Seed)
	setMessage(m, "state", encodeState(resp.State))
	return m
}

// DecodeStartResponse converts a StartResponse wire message.
func DecodeStartResponse(msg proto.Message) (*game.StartResponse, error) {
	m, err := reflectAs(msg, startResponseDesc)
	if err != nil {
		return nil, err
	}
	return &game.StartResponse{
		Result:          game.StartResult(getEnum(m, "result")),
		GameID:          getString(m, "gameId"),
		MapWidth:        getInt32(m, "mapWidth"),
		MapHeight:       getInt32(m, "mapHeight"),
		VisibilityRange: getInt32(m, "visibilityRange"),
		State:           decodeState(getMessage(m, "state")),
		Seed:            getOptionalInt32(m, "seed"),
	}, nil
}

// EncodeActRequest converts req to its wire message.
func EncodeActRequest(req *game.ActRequest) *dynamicpb.Message {
	m := NewActRequest()
	if req == nil {
		return m
	}
	setString(m, "gameId", req.GameID)
	m.Set(fieldOf(m, "action"), protoreflect.ValueOfEnum(protoreflect.EnumNumber(req.Action)))
	return m
}

// DecodeActRequest converts an ActRequest wire message. A request without
// an action decodes as game.ActionNone.
func DecodeActRequest(msg proto.Message) (*game.ActRequest, error) {
	m, err := reflectAs(msg, actRequestDesc)
	if err != nil {
		return nil, err
	}
	return &game.ActRequest{
		GameID: getString(m, "gameId"),
		Action: game.Action(getEnum(m, "action")),
	}, nil
}

// EncodeActResponse converts resp to its wire message.
func EncodeActResponse(resp *game.ActResponse) *dynamicpb.Message {
	m := NewActResponse()
	if resp == nil {
		return m
	}
	setEnum(m, "result", int32(resp.Result))
	setMessage(m, "state", encodeState(resp.State))
	return m
}

// DecodeActResponse converts an ActResponse wire message.
func DecodeActResponse(msg proto.Message) (*game.ActResponse, error) {
	m, err := reflectAs(msg, actResponseDesc)
	if err != nil {
		return nil, err
	}
	return &game.ActResponse{
		Result: game.ActResult(getEnum(m, "result")),
		State:  decodeState(getMessage(m, "state")),
	}, nil
}

// EncodeReplayHeader converts h to its wire message.
func EncodeReplayHeader(h *game.ReplayHeader) *dynamicpb.Message {
	m := NewReplayHeader()
	if h == nil {
		return m
	}
	setString(m, "userName", h.UserName)
	if !h.DateTime.IsZero() {
		setString(m, "dateTime", h.DateTime.Format(time.RFC3339))
	}
	return m
}

// DecodeReplayHeader converts a ReplayHeader wire message. An unparsable
// date leaves DateTime zero.
func DecodeReplayHeader(msg proto.Message) (*game.ReplayHeader, error) {
	m, err := reflectAs(msg, replayHeaderDesc)
	if err != nil {
		return nil, err
	}
	header := &game.ReplayHeader{UserName: getString(m, "userName")}
	if raw := getString(m, "dateTime"); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			header.DateTime = parsed
		}
	}
	return header, nil
}

func encodeState(s *game.State) *dynamicpb.Message {
	if s == nil {
		return nil
	}
	m := dynamicpb.NewMessage(stateDesc)
	setInt32(m, "tick", s.Tick)
	setInt32(m, "level", s.Level)
	setEnum(m, "status", int32(s.Status))
	setMessage(m, "playerState", encodePlayerState(s.Player))
	setMessage(m, "player2State", encodePlayerState(s.Player2))
	return m
}

func decodeState(m protoreflect.Message) *game.State {
	if m == nil {
		return nil
	}
	return &game.State{
		Tick:    getInt32(m, "tick"),
		Level:   getInt32(m, "level"),
		Status:  game.Status(getEnum(m, "status")),
		Player:  decodePlayerState(getMessage(m, "playerState")),
		Player2: decodePlayerState(getMessage(m, "player2State")),
	}
}

func encodePlayerState(p *game.PlayerState) *dynamicpb.Message {
	if p == nil {
		return nil
	}
	m := dynamicpb.NewMessage(playerStateDesc)
	if p.Position != nil {
		pos := dynamicpb.NewMessage(positionDesc)
		setInt32(pos, "x", p.Position.X)
		setInt32(pos, "y", p.Position.Y)
		setMessage(m, "position", pos)
	}
	if len(p.Surroundings) > 0 {
		list := m.Mutable(fieldOf(m, "surroundings")).List()
		for _, tile := range p.Surroundings {
			list.Append(protoreflect.ValueOfEnum(protoreflect.EnumNumber(tile)))
		}
	}
	setInt32(m, "health", p.Health)
	setEnum(m, "inventory", int32(p.Inventory))
	if p.HasSword {
		m.Set(fieldOf(m, "hasSword"), protoreflect.ValueOfBool(true))
	}
	return m
}

func decodePlayerState(m protoreflect.Message) *game.PlayerState {
	if m == nil {
		return nil
	}
	p := &game.PlayerState{
		Health:    getInt32(m, "health"),
		Inventory: game.Inventory(getEnum(m, "inventory")),
		HasSword:  m.Get(fieldOf(m, "hasSword")).Bool(),
	}
	if pos := getMessage(m, "position"); pos != nil {
		p.Position = &game.Position{X: getInt32(pos, "x"), Y: getInt32(pos, "y")}
	}
	list := m.Get(fieldOf(m, "surroundings")).List()
	if list.Len() > 0 {
		p.Surroundings = make([]game.Tile, 0, list.Len())
		for i := 0; i < list.Len(); i++ {
			p.Surroundings = append(p.Surroundings, game.Tile(list.Get(i).Enum()))
		}
	}
	return p
}

func reflectAs(msg proto.Message, want protoreflect.MessageDescriptor) (protoreflect.Message, error) {
	if msg == nil {
		return nil, fmt.Errorf("decode %s: message is nil", want.FullName())
	}
	m := msg.ProtoReflect()
	if got := m.Descriptor().FullName(); got != want.FullName() {
		return nil, fmt.Errorf("decode %s: got %s", want.FullName(), got)
	}
	return m, nil
}

func fieldOf(m protoreflect.Message, name string) protoreflect.FieldDescriptor {
	fd := m.Descriptor().Fields().ByName(protoreflect.Name(name))
	if fd == nil {
		panic(fmt.Sprintf("swoqpb: %s has no field %q", m.Descriptor().FullName(), name))
	}
	return fd
}

func setString(m protoreflect.Message, name, v string) {
	if v != "" {
		m.Set(fieldOf(m, name), protoreflect.ValueOfString(v))
	}
}

func setInt32(m protoreflect.Message, name string, v int32) {
	if v != 0 {
		m.Set(fieldOf(m, name), protoreflect.ValueOfInt32(v))
	}
}

func setEnum(m protoreflect.Message, name string, v int32) {
	if v != 0 {
		m.Set(fieldOf(m, name), protoreflect.ValueOfEnum(protoreflect.EnumNumber(v)))
	}
}

func setOptionalInt32(m protoreflect.Message, name string, v *int32) {
	if v != nil {
		m.Set(fieldOf(m, name), protoreflect.ValueOfInt32(*v))
	}
}

func setMessage(m protoreflect.Message, name string, v *dynamicpb.Message) {
	if v != nil {
		m.Set(fieldOf(m, name), protoreflect.ValueOfMessage(v))
	}
}

func getString(m protoreflect.Message, name string) string {
	return m.Get(fieldOf(m, name)).String()
}

func getInt32(m protoreflect.Message, name string) int32 {
	return int32(m.Get(fieldOf(m, name)).Int())
}

func getEnum(m protoreflect.Message, name string) int32 {
	return int32(m.Get(fieldOf(m, name)).Enum())
}

func getOptionalInt32(m protoreflect.Message, name string) *int32 {
	fd := fieldOf(m, name)
	if !m.Has(fd) {
		return nil
	}
	v := int32(m.Get(fd).Int())
	return &v
}

func getMessage(m protoreflect.Message, name string) protoreflect.Message {
	fd := fieldOf(m, name)
	if !m.Has(fd) {
		return nil
	}
	return m.Get(fd).Message()
}

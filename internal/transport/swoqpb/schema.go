// Package swoqpb declares the Swoq wire schema and converts between its
// protobuf messages and the value types in package game.
//
// The schema is assembled at init from descriptor protos instead of protoc
// output, and messages are handled through dynamicpb. Field names and
// numbers must stay in step with the server's swoq.proto.
package swoqpb

import (
	"fmt"

	"github.com/louisbranch/swoq.bot/internal/game"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

const (
	// Package is the protobuf package of the Swoq interface.
	Package = "swoq.interface"
	// ServiceName is the fully-qualified game service name.
	ServiceName = Package + ".GameService"
	// StartMethod is the full gRPC method name of GameService.Start.
	StartMethod = "/" + ServiceName + "/Start"
	// ActMethod is the full gRPC method name of GameService.Act.
	ActMethod = "/" + ServiceName + "/Act"
)

var (
	file = mustBuildFile()

	startRequestDesc  = file.Messages().ByName("StartRequest")
	startResponseDesc = file.Messages().ByName("StartResponse")
	actRequestDesc    = file.Messages().ByName("ActRequest")
	actResponseDesc   = file.Messages().ByName("ActResponse")
	stateDesc         = file.Messages().ByName("State")
	playerStateDesc   = file.Messages().ByName("PlayerState")
	positionDesc      = file.Messages().ByName("Position")
	replayHeaderDesc  = file.Messages().ByName("ReplayHeader")
)

// File returns the descriptor of the Swoq interface.
func File() protoreflect.FileDescriptor {
	return file
}

func mustBuildFile() protoreflect.FileDescriptor {
	fd, err := protodesc.NewFile(fileDescriptorProto(), nil)
	if err != nil {
		panic(fmt.Sprintf("build swoq descriptor: %v", err))
	}
	return fd
}

type protocolEnum interface {
	~int32
	String() string
}

func enumType[E protocolEnum](name string, values []E) *descriptorpb.EnumDescriptorProto {
	out := &descriptorpb.EnumDescriptorProto{Name: proto.String(name)}
	for _, v := range values {
		out.Value = append(out.Value, &descriptorpb.EnumValueDescriptorProto{
			Name:   proto.String(v.String()),
			Number: proto.Int32(int32(v)),
		})
	}
	return out
}

func field(name string, number int32, kind descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		JsonName: proto.String(name),
		Number:   proto.Int32(number),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:     kind.Enum(),
	}
}

func typedField(name string, number int32, kind descriptorpb.FieldDescriptorProto_Type, typeName string) *descriptorpb.FieldDescriptorProto {
	f := field(name, number, kind)
	f.TypeName = proto.String("." + Package + "." + typeName)
	return f
}

func enumField(name string, number int32, enumName string) *descriptorpb.FieldDescriptorProto {
	return typedField(name, number, descriptorpb.FieldDescriptorProto_TYPE_ENUM, enumName)
}

func messageField(name string, number int32, messageName string) *descriptorpb.FieldDescriptorProto {
	return typedField(name, number, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, messageName)
}

func repeated(f *descriptorpb.FieldDescriptorProto) *descriptorpb.FieldDescriptorProto {
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return f
}

// optionalMessage attaches proto3 explicit presence to the given fields,
// declaring one synthetic oneof per field in order.
func optionalMessage(name string, fields []*descriptorpb.FieldDescriptorProto, optional ...string) *descriptorpb.DescriptorProto {
	msg := &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
	for _, optName := range optional {
		for _, f := range fields {
			if f.GetName() != optName {
				continue
			}
			f.Proto3Optional = proto.Bool(true)
			f.OneofIndex = proto.Int32(int32(len(msg.OneofDecl)))
			msg.OneofDecl = append(msg.OneofDecl, &descriptorpb.OneofDescriptorProto{
				Name: proto.String("_" + optName),
			})
		}
	}
	return msg
}

func fileDescriptorProto() *descriptorpb.FileDescriptorProto {
	const (
		tInt32  = descriptorpb.FieldDescriptorProto_TYPE_INT32
		tString = descriptorpb.FieldDescriptorProto_TYPE_STRING
		tBool   = descriptorpb.FieldDescriptorProto_TYPE_BOOL
	)

	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("swoq.proto"),
		Package: proto.String(Package),
		Syntax:  proto.String("proto3"),
		EnumType: []*descriptorpb.EnumDescriptorProto{
			enumType("GameStatus", game.Statuses()),
			enumType("DirectedAction", game.Actions()),
			enumType("Tile", game.Tiles()),
			enumType("Inventory", game.Inventories()),
			enumType("StartResult", game.StartResults()),
			enumType("ActResult", game.ActResults()),
		},
		MessageType: []*descriptorpb.DescriptorProto{
			optionalMessage("Position", []*descriptorpb.FieldDescriptorProto{
				field("x", 1, tInt32),
				field("y", 2, tInt32),
			}),
			optionalMessage("PlayerState", []*descriptorpb.FieldDescriptorProto{
				messageField("position", 1, "Position"),
				repeated(enumField("surroundings", 2, "Tile")),
				field("health", 3, tInt32),
				enumField("inventory", 4, "Inventory"),
				field("hasSword", 5, tBool),
			}),
			optionalMessage("State", []*descriptorpb.FieldDescriptorProto{
				field("tick", 1, tInt32),
				field("level", 2, tInt32),
				enumField("status", 3, "GameStatus"),
				messageField("playerState", 4, "PlayerState"),
				messageField("player2State", 5, "PlayerState"),
			}),
			optionalMessage("StartRequest", []*descriptorpb.FieldDescriptorProto{
				field("userId", 1, tString),
				field("userName", 2, tString),
				field("level", 3, tInt32),
				field("seed", 4, tInt32),
			}, "level", "seed"),
			optionalMessage("StartResponse", []*descriptorpb.FieldDescriptorProto{
				enumField("result", 1, "StartResult"),
				field("gameId", 2, tString),
				field("mapWidth", 3, tInt32),
				field("mapHeight", 4, tInt32),
				field("visibilityRange", 5, tInt32),
				messageField("state", 6, "State"),
				field("seed", 7, tInt32),
			}, "gameId", "mapWidth", "mapHeight", "visibilityRange", "seed"),
			optionalMessage("ActRequest", []*descriptorpb.FieldDescriptorProto{
				field("gameId", 1, tString),
				enumField("action", 2, "DirectedAction"),
			}, "action"),
			optionalMessage("ActResponse", []*descriptorpb.FieldDescriptorProto{
				enumField("result", 1, "ActResult"),
				messageField("state", 2, "State"),
			}),
			optionalMessage("ReplayHeader", []*descriptorpb.FieldDescriptorProto{
				field("userName", 1, tString),
				field("dateTime", 2, tString),
			}),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("GameService"),
			Method: []*descriptorpb.MethodDescriptorProto{
				{
					Name:       proto.String("Start"),
					InputType:  proto.String("." + Package + ".StartRequest"),
					OutputType: proto.String("." + Package + ".StartResponse"),
				},
				{
					Name:       proto.String("Act"),
					InputType:  proto.String("." + Package + ".ActRequest"),
					OutputType: proto.String("." + Package + ".ActResponse"),
				},
			},
		}},
	}
}

package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/louisbranch/swoq.bot/internal/game"
	"github.com/louisbranch/swoq.bot/internal/transport/swoqpb"
	"google.golang.org/protobuf/encoding/protodelim"
	"google.golang.org/protobuf/proto"
)

// ErrTruncated reports a replay that ends in the middle of a turn.
var ErrTruncated = errors.New("replay truncated")

// Turn is one recorded exchange.
type Turn struct {
	Request  *game.ActRequest
	Response *game.ActResponse
}

// Replay is a parsed replay file.
type Replay struct {
	Header        *game.ReplayHeader
	Start         *game.StartRequest
	StartResponse *game.StartResponse
	Turns         []Turn
}

// Final returns the last known state of the game.
func (r *Replay) Final() *game.State {
	if r == nil {
		return nil
	}
	for i := len(r.Turns) - 1; i >= 0; i-- {
		if resp := r.Turns[i].Response; resp != nil && resp.State != nil {
			return resp.State
		}
	}
	if r.StartResponse != nil {
		return r.StartResponse.State
	}
	return nil
}

// Open reads the replay file at path.
func Open(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a replay stream. The turns read before a truncated trailing
// turn are returned together with ErrTruncated.
func Read(r io.Reader) (*Replay, error) {
	br := bufio.NewReader(r)

	headerMsg := swoqpb.NewReplayHeader()
	if err := readFrame(br, headerMsg); err != nil {
		return nil, fmt.Errorf("read replay header: %w", err)
	}
	header, err := swoqpb.DecodeReplayHeader(headerMsg)
	if err != nil {
		return nil, fmt.Errorf("decode replay header: %w", err)
	}

	startMsg := swoqpb.NewStartRequest()
	if err := readFrame(br, startMsg); err != nil {
		return nil, fmt.Errorf("read start request: %w", err)
	}
	start, err := swoqpb.DecodeStartRequest(startMsg)
	if err != nil {
		return nil, fmt.Errorf("decode start request: %w", err)
	}

	startRespMsg := swoqpb.NewStartResponse()
	if err := readFrame(br, startRespMsg); err != nil {
		return nil, fmt.Errorf("read start response: %w", err)
	}
	startResp, err := swoqpb.DecodeStartResponse(startRespMsg)
	if err != nil {
		return nil, fmt.Errorf("decode start response: %w", err)
	}

	replay := &Replay{Header: header, Start: start, StartResponse: startResp}
	for {
		reqMsg := swoqpb.NewActRequest()
		err := protodelim.UnmarshalFrom(br, reqMsg)
		if errors.Is(err, io.EOF) {
			return replay, nil
		}
		if err != nil {
			return replay, fmt.Errorf("read turn %d: %w", len(replay.Turns)+1, truncated(err))
		}
		respMsg := swoqpb.NewActResponse()
		if err := readFrame(br, respMsg); err != nil {
			return replay, fmt.Errorf("read turn %d: %w", len(replay.Turns)+1, err)
		}

		req, err := swoqpb.DecodeActRequest(reqMsg)
		if err != nil {
			return replay, err
		}
		resp, err := swoqpb.DecodeActResponse(respMsg)
		if err != nil {
			return replay, err
		}
		replay.Turns = append(replay.Turns, Turn{Request: req, Response: resp})
	}
}

// readFrame reads one frame that must be present.
func readFrame(br *bufio.Reader, msg proto.Message) error {
	return truncated(protodelim.UnmarshalFrom(br, msg))
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}
	return err
}

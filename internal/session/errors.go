package session

import (
	"strconv"

	"github.com/louisbranch/swoq.bot/internal/game"
	apperrors "github.com/louisbranch/swoq.bot/internal/platform/errors"
)

// Errors returned by this package. Match them with errors.Is; the returned
// errors carry the same code plus metadata and the underlying cause.
var (
	ErrInvalidConfig     = apperrors.New(apperrors.CodeInvalidConfig, "invalid session config")
	ErrUnreachable       = apperrors.New(apperrors.CodeUnreachable, "game server unreachable")
	ErrReplayPathInvalid = apperrors.New(apperrors.CodeReplayPathInvalid, "replay folder is not writable")

	ErrStartRejected    = apperrors.New(apperrors.CodeStartRejected, "start rejected")
	ErrStartTransport   = apperrors.New(apperrors.CodeStartTransport, "start failed")
	ErrStartInProgress  = apperrors.New(apperrors.CodeStartInProgress, "start already in progress")
	ErrChannelHandedOff = apperrors.New(apperrors.CodeChannelHandedOff, "channel handed off to a game")

	ErrSessionTerminated = apperrors.New(apperrors.CodeSessionTerminated, "session terminated")
	ErrTurnInProgress    = apperrors.New(apperrors.CodeTurnInProgress, "turn already in progress")
	ErrInvalidAction     = apperrors.New(apperrors.CodeInvalidAction, "invalid action")
	ErrActTransport      = apperrors.New(apperrors.CodeActTransport, "act failed")
	ErrActRejected       = apperrors.New(apperrors.CodeActRejected, "act rejected")
	ErrProtocolViolation = apperrors.New(apperrors.CodeProtocolViolation, "protocol violation")
)

// Metadata keys set on errors from this package.
const (
	MetadataField        = "field"
	MetadataHost         = "host"
	MetadataResult       = "result"
	MetadataGameID       = "game_id"
	MetadataTick         = "tick"
	MetadataPreviousTick = "previous_tick"
)

// RejectedStartResult returns the server's StartResult carried by an
// ErrStartRejected error.
func RejectedStartResult(err error) (game.StartResult, bool) {
	if apperrors.CodeOf(err) != apperrors.CodeStartRejected {
		return 0, false
	}
	name, ok := apperrors.MetadataOf(err, MetadataResult)
	if !ok {
		return 0, false
	}
	return game.ParseStartResult(name)
}

// RejectedActResult returns the server's ActResult carried by an
// ErrActRejected error.
func RejectedActResult(err error) (game.ActResult, bool) {
	if apperrors.CodeOf(err) != apperrors.CodeActRejected {
		return 0, false
	}
	name, ok := apperrors.MetadataOf(err, MetadataResult)
	if !ok {
		return 0, false
	}
	return game.ParseActResult(name)
}

func invalidConfig(field, message string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidConfig, "invalid session config: "+message, map[string]string{MetadataField: field})
}

func startRejected(result game.StartResult) error {
	return apperrors.WithMetadata(apperrors.CodeStartRejected, "start rejected: "+result.String(), map[string]string{MetadataResult: result.String()})
}

func malformedStart(gameID, message string) error {
	return apperrors.WithMetadata(apperrors.CodeStartTransport, "malformed start response: "+message, map[string]string{MetadataGameID: gameID})
}

func actRejected(gameID string, result game.ActResult, tick int32) error {
	return apperrors.WithMetadata(apperrors.CodeActRejected, "act rejected: "+result.String(), map[string]string{
		MetadataResult: result.String(),
		MetadataGameID: gameID,
		MetadataTick:   strconv.Itoa(int(tick)),
	})
}

func protocolViolation(gameID, message string, metadata map[string]string) error {
	if metadata == nil {
		metadata = make(map[string]string, 1)
	}
	metadata[MetadataGameID] = gameID
	return apperrors.WithMetadata(apperrors.CodeProtocolViolation, "protocol violation: "+message, metadata)
}

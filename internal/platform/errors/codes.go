// Package errors provides structured errors with machine-readable codes.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Connect errors
	CodeInvalidConfig     Code = "CONNECT_INVALID_CONFIG"
	CodeUnreachable       Code = "CONNECT_UNREACHABLE"
	CodeReplayPathInvalid Code = "CONNECT_REPLAY_PATH_INVALID"

	// Start errors
	CodeStartRejected    Code = "START_REJECTED"
	CodeStartTransport   Code = "START_TRANSPORT"
	CodeStartInProgress  Code = "START_IN_PROGRESS"
	CodeChannelHandedOff Code = "START_CHANNEL_HANDED_OFF"

	// Act errors
	CodeSessionTerminated Code = "ACT_SESSION_TERMINATED"
	CodeTurnInProgress    Code = "ACT_TURN_IN_PROGRESS"
	CodeInvalidAction     Code = "ACT_INVALID_ACTION"
	CodeActTransport      Code = "ACT_TRANSPORT"
	CodeActRejected       Code = "ACT_REJECTED"
	CodeProtocolViolation Code = "ACT_PROTOCOL_VIOLATION"
)

// Misuse reports whether the code signals a caller programming error that
// retrying can never fix.
func (c Code) Misuse() bool {
	switch c {
	case CodeInvalidConfig,
		CodeStartInProgress,
		CodeChannelHandedOff,
		CodeSessionTerminated,
		CodeTurnInProgress,
		CodeInvalidAction:
		return true
	default:
		return false
	}
}

// Fatal reports whether the code ends the session: the caller can only
// abandon it and start a fresh one.
func (c Code) Fatal() bool {
	switch c {
	case CodeProtocolViolation, CodeSessionTerminated:
		return true
	default:
		return false
	}
}

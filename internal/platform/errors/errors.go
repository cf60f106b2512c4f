package errors

import (
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"
)

// Metadata keys attached by this package.
const (
	MetadataGRPCCode = "grpc_code"
	MetadataReason   = "reason"
)

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Human-readable message for logs
	Metadata map[string]string // Additional context (results, ids, reasons)
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithMetadata creates a domain error with metadata.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapTransport wraps a failed RPC. The gRPC status code and, when the
// server attached one, the errdetails.ErrorInfo reason are copied into the
// error metadata.
func WrapTransport(code Code, message string, cause error) *Error {
	e := Wrap(code, message, cause)
	st, ok := status.FromError(cause)
	if !ok {
		return e
	}
	e.Metadata = map[string]string{MetadataGRPCCode: st.Code().String()}
	for _, detail := range st.Details() {
		if info, ok := detail.(*errdetails.ErrorInfo); ok && info.GetReason() != "" {
			e.Metadata[MetadataReason] = info.GetReason()
			break
		}
	}
	return e
}

// CodeOf returns the code of the first *Error in err's chain.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// MetadataOf returns metadata key of the first *Error in err's chain.
func MetadataOf(err error, key string) (string, bool) {
	var e *Error
	if !errors.As(err, &e) || e.Metadata == nil {
		return "", false
	}
	value, ok := e.Metadata[key]
	return value, ok
}

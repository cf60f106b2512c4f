package errors

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	sentinel := New(CodeSessionTerminated, "session terminated")
	err := fmt.Errorf("turn: %w", Wrap(CodeSessionTerminated, "game over", nil))

	if !errors.Is(err, sentinel) {
		t.Fatal("expected errors.Is to match by code")
	}
	if errors.Is(err, New(CodeActTransport, "transport")) {
		t.Fatal("expected different code not to match")
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Wrap(CodeUnreachable, "dial game server", fmt.Errorf("connection refused"))
	if got, want := err.Error(), "dial game server: connection refused"; got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
	if !errors.Is(err.Unwrap(), err.Cause) {
		t.Fatal("expected unwrap to return cause")
	}
}

func TestWrapTransportCopiesStatusDetails(t *testing.T) {
	st, err := status.New(codes.FailedPrecondition, "quest active").WithDetails(&errdetails.ErrorInfo{
		Reason: "QUEST_ALREADY_ACTIVE",
		Domain: "swoq",
	})
	if err != nil {
		t.Fatalf("with details: %v", err)
	}

	wrapped := WrapTransport(CodeStartTransport, "start game", st.Err())
	if got, _ := MetadataOf(wrapped, MetadataGRPCCode); got != codes.FailedPrecondition.String() {
		t.Fatalf("grpc code = %q, want %q", got, codes.FailedPrecondition.String())
	}
	if got, _ := MetadataOf(wrapped, MetadataReason); got != "QUEST_ALREADY_ACTIVE" {
		t.Fatalf("reason = %q, want QUEST_ALREADY_ACTIVE", got)
	}
}

func TestWrapTransportWithoutStatus(t *testing.T) {
	wrapped := WrapTransport(CodeActTransport, "act", fmt.Errorf("plain"))
	if wrapped.Metadata != nil {
		t.Fatalf("metadata = %v, want nil", wrapped.Metadata)
	}
	if CodeOf(wrapped) != CodeActTransport {
		t.Fatalf("code = %s, want %s", CodeOf(wrapped), CodeActTransport)
	}
	if CodeOf(fmt.Errorf("plain")) != CodeUnknown {
		t.Fatal("expected unknown code for plain errors")
	}
}

func TestCodeClassification(t *testing.T) {
	cases := []struct {
		code   Code
		misuse bool
		fatal  bool
	}{
		{code: CodeSessionTerminated, misuse: true, fatal: true},
		{code: CodeProtocolViolation, misuse: false, fatal: true},
		{code: CodeActTransport, misuse: false, fatal: false},
		{code: CodeTurnInProgress, misuse: true, fatal: false},
		{code: CodeStartRejected, misuse: false, fatal: false},
	}
	for _, tc := range cases {
		if got := tc.code.Misuse(); got != tc.misuse {
			t.Fatalf("%s misuse = %v, want %v", tc.code, got, tc.misuse)
		}
		if got := tc.code.Fatal(); got != tc.fatal {
			t.Fatalf("%s fatal = %v, want %v", tc.code, got, tc.fatal)
		}
	}
}

package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(NodeUnknown, "no such node")
	if !strings.Contains(err.Error(), "NODE_UNKNOWN") {
		t.Errorf("expected code in message, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "no such node") {
		t.Errorf("expected message, got %q", err.Error())
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(FetchFailed, "fetching remote tree", cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("expected cause in message, got %q", err.Error())
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"direct", New(SchemaMismatch, "bad version"), SchemaMismatch},
		{"wrapped deeper", fmt.Errorf("outer: %w", New(SessionNotFound, "gone")), SessionNotFound},
		{"plain error", stderrors.New("boom"), Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := Wrap(NotModifiedConflict, "304 without cached payload", nil)
	if !Is(err, NotModifiedConflict) {
		t.Error("expected Is to match code")
	}
	if Is(err, FetchFailed) {
		t.Error("expected Is to reject other codes")
	}
}

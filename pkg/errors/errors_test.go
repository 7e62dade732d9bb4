package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidGraph, "test message: %s", "value")

	if err.Code != ErrCodeInvalidGraph {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidGraph)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_GRAPH: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeTransport, cause, "failed to reach engine")

	if err.Code != ErrCodeTransport {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeTransport)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeDuplicateID, "test"),
			code:     ErrCodeDuplicateID,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeDuplicateID, "test"),
			code:     ErrCodeTransport,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeTransport, New(ErrCodeMissingID, "inner"), "outer"),
			code:     ErrCodeTransport,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeDuplicateID,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeDuplicateID,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeLayoutRejected, "test"),
			expected: ErrCodeLayoutRejected,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidGraph, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestErrorClasses(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantStructural bool
		wantTransport  bool
	}{
		{
			name:           "missing id",
			err:            New(ErrCodeMissingID, "node without id"),
			wantStructural: true,
		},
		{
			name:           "duplicate id",
			err:            New(ErrCodeDuplicateID, "duplicate edge id"),
			wantStructural: true,
		},
		{
			name:           "ambiguous edge",
			err:            New(ErrCodeAmbiguousEdge, "edge e1"),
			wantStructural: true,
		},
		{
			name:          "engine unavailable",
			err:           New(ErrCodeEngineUnavailable, "connect refused"),
			wantTransport: true,
		},
		{
			name:          "malformed response",
			err:           New(ErrCodeInvalidResponse, "not JSON"),
			wantTransport: true,
		},
		{
			name:          "timeout",
			err:           New(ErrCodeTimeout, "deadline exceeded"),
			wantTransport: true,
		},
		{
			name: "layout rejection is neither class",
			err:  New(ErrCodeLayoutRejected, "engine refused graph"),
		},
		{
			name: "plain error is neither class",
			err:  errors.New("plain"),
		},
		{
			name:          "wrapped transport keeps its class",
			err:           Wrap(ErrCodeTransport, errors.New("broken pipe"), "exchange"),
			wantTransport: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStructural(tt.err); got != tt.wantStructural {
				t.Errorf("IsStructural() = %v, want %v", got, tt.wantStructural)
			}
			if got := IsTransport(tt.err); got != tt.wantTransport {
				t.Errorf("IsTransport() = %v, want %v", got, tt.wantTransport)
			}
		})
	}
}

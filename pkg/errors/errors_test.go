package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidVelocity, "velocity %.1f m/s", 4.5)

	if err.Code != ErrCodeInvalidVelocity {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidVelocity)
	}

	if err.Message != "velocity 4.5 m/s" {
		t.Errorf("Message = %v, want %v", err.Message, "velocity 4.5 m/s")
	}

	expected := "INVALID_VELOCITY: velocity 4.5 m/s"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInvalidFormat, cause, "decode sections")

	if err.Code != ErrCodeInvalidFormat {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidFormat)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestContext(t *testing.T) {
	t.Run("keeps code", func(t *testing.T) {
		inner := New(ErrCodeUnstableSlope, "bank too steep")
		err := Context(inner, "section %d", 2)
		if GetCode(err) != ErrCodeUnstableSlope {
			t.Errorf("GetCode() = %v, want %v", GetCode(err), ErrCodeUnstableSlope)
		}
		if !errors.Is(err, inner) {
			t.Error("Context should wrap the original error")
		}
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		err := Context(errors.New("boom"), "outer")
		if GetCode(err) != ErrCodeInternal {
			t.Errorf("GetCode() = %v, want %v", GetCode(err), ErrCodeInternal)
		}
	})

	t.Run("nil stays nil", func(t *testing.T) {
		if Context(nil, "outer") != nil {
			t.Error("Context(nil) should return nil")
		}
	})
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
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeConvergenceFailure,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeInvalidFormat, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeInvalidFormat,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
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
			err:      New(ErrCodeUnknownMaterial, "test"),
			expected: ErrCodeUnknownMaterial,
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
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "nested Error",
			err:      Wrap(ErrCodeInvalidInput, New(ErrCodeInvalidVelocity, "too fast"), "section 1"),
			expected: "section 1: too fast",
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

package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidVault, "missing root: %s", "/vault")

	if err.Code != ErrCodeInvalidVault {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidVault)
	}
	if err.Message != "missing root: /vault" {
		t.Errorf("Message = %v, want %v", err.Message, "missing root: /vault")
	}
	expected := "INVALID_VAULT: missing root: /vault"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "anki-connect unreachable")

	if err.Code != ErrCodeNetwork {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNetwork)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{
			name: "MatchingCode",
			err:  New(ErrCodeUnsupported, "related boost"),
			code: ErrCodeUnsupported,
			want: true,
		},
		{
			name: "DifferentCode",
			err:  New(ErrCodeUnsupported, "related boost"),
			code: ErrCodeNetwork,
			want: false,
		},
		{
			name: "WrappedStructuredError",
			err:  Wrap(ErrCodeTimeout, errors.New("deadline"), "store call"),
			code: ErrCodeTimeout,
			want: true,
		},
		{
			name: "PlainError",
			err:  errors.New("plain"),
			code: ErrCodeInternal,
			want: false,
		},
		{
			name: "Nil",
			err:  nil,
			code: ErrCodeInternal,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeCardNotFound, "no card")); got != ErrCodeCardNotFound {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeCardNotFound)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode() = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "bad depth")); got != "bad depth" {
		t.Errorf("UserMessage() = %q, want message without code prefix", got)
	}
	if got := UserMessage(errors.New("plain failure")); got != "plain failure" {
		t.Errorf("UserMessage() = %q, want raw error string", got)
	}
}

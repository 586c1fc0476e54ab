package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeInvalidProjection, "unknown projection: %s", "sinusoidal")
	want := "INVALID_PROJECTION: unknown projection: sinusoidal"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "fetch tile %d/%d/%d", 11, 1051, 723)

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match its cause via errors.Is")
	}
	if GetCode(err) != ErrCodeNetwork {
		t.Errorf("GetCode = %q, want %q", GetCode(err), ErrCodeNetwork)
	}
}

func TestIsMatchesCode(t *testing.T) {
	err := New(ErrCodeDegenerateExtent, "bounding box corners coincide")
	if !Is(err, ErrCodeDegenerateExtent) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeNetwork) {
		t.Error("Is should not match a different code")
	}
	if Is(fmt.Errorf("plain"), ErrCodeNetwork) {
		t.Error("Is should not match plain errors")
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidViewpoint, "viewpoint must be one of south, west, north, east")
	if got := UserMessage(err); got != "viewpoint must be one of south, west, north, east" {
		t.Errorf("UserMessage = %q", got)
	}
	plain := fmt.Errorf("boom")
	if got := UserMessage(plain); got != "boom" {
		t.Errorf("UserMessage for plain error = %q", got)
	}
}

func TestIsConfig(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeInvalidProjection, true},
		{ErrCodeInvalidViewpoint, true},
		{ErrCodeInvalidInput, true},
		{ErrCodeInvalidSource, true},
		{ErrCodeNetwork, false},
		{ErrCodeDataUnavailable, false},
	}
	for _, tt := range tests {
		if got := IsConfig(New(tt.code, "x")); got != tt.want {
			t.Errorf("IsConfig(%s) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

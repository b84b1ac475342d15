package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidLayout, "invalid layout kind: %s", "spiral")

	if err.Code != ErrCodeInvalidLayout {
		t.Errorf("code = %s, want %s", err.Code, ErrCodeInvalidLayout)
	}
	if err.Message != "invalid layout kind: spiral" {
		t.Errorf("message = %q", err.Message)
	}
	want := "INVALID_LAYOUT: invalid layout kind: spiral"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeStorage, cause, "save record %s", "abc")

	if err.Cause != cause {
		t.Error("cause not preserved")
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	want := "STORAGE_ERROR: save record abc: disk full"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeMapNotFound, "mind map not found")

	if !Is(err, ErrCodeMapNotFound) {
		t.Error("Is should match the error's code")
	}
	if Is(err, ErrCodeStorage) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeStorage) {
		t.Error("Is should not match plain errors")
	}

	// Matching survives fmt wrapping.
	wrapped := fmt.Errorf("outer context: %w", err)
	if !Is(wrapped, ErrCodeMapNotFound) {
		t.Error("Is should unwrap fmt-wrapped errors")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeRender, "encode failed")); got != ErrCodeRender {
		t.Errorf("GetCode = %s, want %s", got, ErrCodeRender)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode for plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidInput, "outline text is required")
	if got := UserMessage(err); got != "outline text is required" {
		t.Errorf("UserMessage = %q", got)
	}

	plain := stderrors.New("something broke")
	if got := UserMessage(plain); got != "something broke" {
		t.Errorf("UserMessage for plain error = %q", got)
	}
}

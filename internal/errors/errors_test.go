package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestSparkError_Error(t *testing.T) {
	err := &SparkError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "entry not found",
	}

	expected := "NOT_FOUND: entry not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("title is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "title is required" {
		t.Errorf("Message = %q, want %q", err.Message, "title is required")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("abc")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["id"] != "abc" {
		t.Errorf("Details[id] = %v, want %q", err.Details["id"], "abc")
	}
}

func TestNewDuplicateID(t *testing.T) {
	err := NewDuplicateID("abc")

	if err.Code != ErrDuplicateID {
		t.Errorf("Code = %q, want %q", err.Code, ErrDuplicateID)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
}

func TestNewEntryTooLarge(t *testing.T) {
	err := NewEntryTooLarge(100, 150)

	if err.Code != ErrEntryTooLarge {
		t.Errorf("Code = %q, want %q", err.Code, ErrEntryTooLarge)
	}
	if err.Status != 413 {
		t.Errorf("Status = %d, want 413", err.Status)
	}
	if err.Details["max_chars"] != 100 {
		t.Errorf("Details[max_chars] = %v, want 100", err.Details["max_chars"])
	}
	if err.Details["actual_chars"] != 150 {
		t.Errorf("Details[actual_chars] = %v, want 150", err.Details["actual_chars"])
	}
}

func TestNewWriteFailure_Unwraps(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := NewWriteFailure(cause)

	if err.Code != ErrWriteFailure {
		t.Errorf("Code = %q, want %q", err.Code, ErrWriteFailure)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected WriteFailure to unwrap to its cause")
	}
	if err.Message != "failed to write entries: disk full" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewCorruptStorage(t *testing.T) {
	err := NewCorruptStorage("/tmp/entries.json", fmt.Errorf("unexpected EOF"))

	if err.Code != ErrCorruptStorage {
		t.Errorf("Code = %q, want %q", err.Code, ErrCorruptStorage)
	}
	if err.Details["path"] != "/tmp/entries.json" {
		t.Errorf("Details[path] = %v", err.Details["path"])
	}
}

func TestNewInternal(t *testing.T) {
	err := NewInternal(fmt.Errorf("boom"))
	if err.Message != "boom" {
		t.Errorf("Message = %q, want %q", err.Message, "boom")
	}

	err = NewInternal(nil)
	if err.Message != "internal error" {
		t.Errorf("Message = %q, want %q", err.Message, "internal error")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"matching code", NewNotFound("x"), ErrNotFound, true},
		{"different code", NewNotFound("x"), ErrInvalidRequest, false},
		{"wrapped", fmt.Errorf("update: %w", NewNotFound("x")), ErrNotFound, true},
		{"plain error", fmt.Errorf("plain"), ErrNotFound, false},
		{"nil", nil, ErrNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewFileNotFound(t *testing.T) {
	err := NewFileNotFound("/tmp/x.json")

	if err.Code != ErrFileNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrFileNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["path"] != "/tmp/x.json" {
		t.Errorf("Details[path] = %v", err.Details["path"])
	}
}

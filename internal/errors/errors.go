package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Spark error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrFileNotFound   ErrorCode = "FILE_NOT_FOUND"  // 404
	ErrDuplicateID    ErrorCode = "DUPLICATE_ID"    // 409
	ErrEntryTooLarge  ErrorCode = "ENTRY_TOO_LARGE" // 413
	ErrCorruptStorage ErrorCode = "CORRUPT_STORAGE" // 422 (recovered locally, logged)
	ErrWriteFailure   ErrorCode = "WRITE_FAILURE"   // 500
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// SparkError represents a structured error with code, status, and details.
type SparkError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any

	cause error
}

// Error implements the error interface.
func (e *SparkError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *SparkError) Unwrap() error {
	return e.cause
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *SparkError {
	return &SparkError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when an entry cannot be found.
func NewNotFound(id string) *SparkError {
	return &SparkError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("entry not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewFileNotFound creates a 404 error when an import file does not exist.
func NewFileNotFound(path string) *SparkError {
	return &SparkError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewDuplicateID creates a 409 error when an entry id is already taken.
func NewDuplicateID(id string) *SparkError {
	return &SparkError{
		Code:    ErrDuplicateID,
		Status:  409,
		Message: fmt.Sprintf("entry with id %q already exists", id),
		Details: map[string]any{"id": id},
	}
}

// NewEntryTooLarge creates a 413 error when entry content exceeds the size limit.
func NewEntryTooLarge(max, actual int) *SparkError {
	return &SparkError{
		Code:    ErrEntryTooLarge,
		Status:  413,
		Message: fmt.Sprintf("entry content exceeds maximum size: %d chars (max %d)", actual, max),
		Details: map[string]any{"max_chars": max, "actual_chars": actual},
	}
}

// NewCorruptStorage creates a 422 error for an unreadable entries document.
func NewCorruptStorage(path string, err error) *SparkError {
	msg := "entries document is corrupt"
	if err != nil {
		msg = fmt.Sprintf("entries document is corrupt: %v", err)
	}
	return &SparkError{
		Code:    ErrCorruptStorage,
		Status:  422,
		Message: msg,
		Details: map[string]any{"path": path},
		cause:   err,
	}
}

// NewWriteFailure creates a 500 error when the entries document could not be written.
// The in-memory state is still authoritative when this is returned.
func NewWriteFailure(err error) *SparkError {
	msg := "failed to write entries"
	if err != nil {
		msg = fmt.Sprintf("failed to write entries: %v", err)
	}
	return &SparkError{
		Code:    ErrWriteFailure,
		Status:  500,
		Message: msg,
		cause:   err,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *SparkError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &SparkError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		cause:   err,
	}
}

// Is checks if err (or anything it wraps) is a SparkError with the given code.
func Is(err error, code ErrorCode) bool {
	var sErr *SparkError
	if stderrors.As(err, &sErr) {
		return sErr.Code == code
	}
	return false
}

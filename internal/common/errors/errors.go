// Package errors provides standardized error handling for the stage chain.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeSimilarFetchFailed     ErrorCode = "SIMILAR_FETCH_FAILED"
	ErrCodeWhatTheyDidFetchFailed ErrorCode = "WHAT_THEY_DID_FETCH_FAILED"
	ErrCodeHowTheyWonFetchFailed  ErrorCode = "HOW_THEY_WON_FETCH_FAILED"
	ErrCodeArenaFetchFailed       ErrorCode = "ARENA_FETCH_FAILED"

	ErrCodeResponseSchemaInvalid ErrorCode = "RESPONSE_SCHEMA_INVALID"

	ErrCodeEmptyInput      ErrorCode = "EMPTY_INPUT"
	ErrCodeArenaNotReady   ErrorCode = "ARENA_NOT_READY"
	ErrCodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"
)

// StandardError represents a structured application error.
// Message is safe to show to the user; Details is for logs only.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. Error Constructors
// ==========================

// NewStageFetchFailedError wraps a failed stage call. The message is the fixed
// user-facing text; transport and status failures are not told apart.
func NewStageFetchFailedError(code ErrorCode, message string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewResponseSchemaInvalidError creates a non-retryable contract violation error.
func NewResponseSchemaInvalidError(endpoint, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeResponseSchemaInvalid,
		Message:   "Unexpected response from the search service",
		Details:   fmt.Sprintf("endpoint: %s, %s", endpoint, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewEmptyInputError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyInput,
		Message:   "Enter a project description or link first",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewArenaNotReadyError() *StandardError {
	return &StandardError{
		Code:      ErrCodeArenaNotReady,
		Message:   "The arena opens once the winning projects have been assessed",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewSessionNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Session not found or expired",
		Details:   fmt.Sprintf("sessionId: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Helpers
// ==========================

// UserMessage returns the user-facing text of err. Anything that is not a
// StandardError collapses to a generic message.
func UserMessage(err error) string {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Message
	}
	return "An error occurred"
}

// CodeOf returns the error code of err, or "UNKNOWN_ERROR".
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return "UNKNOWN_ERROR"
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	var se *StandardError
	return errors.As(err, &se) && se.Code == code
}

package errors

import (
	"errors"
	"time"
)

// ErrorHandler normalizes stage failures and logs them with their details.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleStageError logs err against stage and returns its normalized form.
func (h *ErrorHandler) HandleStageError(stage string, err error) *StandardError {
	stdErr := h.normalizeError(err)

	h.logger.Error("stage failed", map[string]interface{}{
		"stage":     stage,
		"errorCode": stdErr.Code,
		"message":   stdErr.Message,
		"details":   stdErr.Details,
		"retryable": stdErr.Retryable,
	})

	return stdErr
}

func (h *ErrorHandler) normalizeError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "An error occurred",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

package errors

import (
	"context"
	stderrors "errors"
	"net"
	"time"
)

// Notice is the dismissible banner shown for a failed step.
type Notice struct {
	Code      ErrorCode `json:"code"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable"`
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// Handler turns arbitrary errors into notices and logs them once.
type Handler struct {
	logger Logger
}

func NewHandler(logger Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle normalizes err, logs it with the operation name and returns the notice.
func (h *Handler) Handle(op string, err error) Notice {
	stdErr := Normalize(err)

	if h.logger != nil {
		h.logger.Error("Operation failed", map[string]interface{}{
			"operation":     op,
			"errorCode":     string(stdErr.Code),
			"status":        stdErr.Status,
			"message":       stdErr.Message,
			"details":       stdErr.Details,
			"retryable":     stdErr.Retryable,
			"errorCategory": GetErrorCategory(stdErr.Code),
		})
	}

	return NoticeFor(stdErr)
}

func NoticeFor(stdErr *StandardError) Notice {
	return Notice{
		Code:      stdErr.Code,
		Title:     stdErr.Title(),
		Message:   stdErr.Message,
		Retryable: stdErr.Retryable,
	}
}

// As unwraps err to a *StandardError when one is in the chain.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	stdErr, ok := As(err)
	return ok && stdErr.Code == code
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	if stdErr, ok := As(err); ok {
		return stdErr
	}

	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return NewTimeoutError(err)
	case stderrors.Is(err, context.Canceled):
		return NewCancelledError(err)
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		if netErr.Timeout() {
			return NewTimeoutError(err)
		}
		return NewNetworkError(err)
	}

	return &StandardError{
		Code:      ErrCodeUnknown,
		Message:   msgDefault,
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

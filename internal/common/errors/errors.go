// Package errors provides the standardized error taxonomy for the onboarding client.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Local errors never reach the network.
const (
	ErrCodeValidationFailed         ErrorCode = "VALIDATION_FAILED"
	ErrCodeSubjectRequired          ErrorCode = "SUBJECT_REQUIRED"
	ErrCodeInvalidStep              ErrorCode = "INVALID_STEP"
	ErrCodeDocumentRejected         ErrorCode = "DOCUMENT_REJECTED"
	ErrCodePayloadContractViolation ErrorCode = "PAYLOAD_CONTRACT_VIOLATION"
	ErrCodeSessionResumeFailed      ErrorCode = "SESSION_RESUME_FAILED"
	ErrCodeSessionStoreFailed       ErrorCode = "SESSION_STORE_FAILED"
)

// Remote errors, classified by HTTP status.
const (
	ErrCodeBadInput      ErrorCode = "BAD_INPUT"
	ErrCodeAuthExpired   ErrorCode = "AUTH_EXPIRED"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeUnprocessable ErrorCode = "UNPROCESSABLE"
	ErrCodeServerError   ErrorCode = "SERVER_ERROR"
	ErrCodeRemoteFailed  ErrorCode = "REMOTE_FAILED"
)

// Transport errors: no usable response.
const (
	ErrCodeNetwork   ErrorCode = "NETWORK_ERROR"
	ErrCodeTimeout   ErrorCode = "TIMEOUT"
	ErrCodeCancelled ErrorCode = "CANCELLED"
	ErrCodeUnknown   ErrorCode = "UNKNOWN_ERROR"
)

// StandardError represents a structured application error. Message is
// always safe to show to the person filling in the form.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Status    int                    `json:"status,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Title returns the short banner heading for the error.
func (e *StandardError) Title() string {
	switch e.Code {
	case ErrCodeBadInput, ErrCodeValidationFailed, ErrCodePayloadContractViolation:
		return "Validation Error"
	case ErrCodeAuthExpired:
		return "Authentication Error"
	case ErrCodeForbidden:
		return "Permission Error"
	case ErrCodeNotFound:
		return "Not Found"
	case ErrCodeConflict:
		return "Conflict"
	case ErrCodeUnprocessable:
		return "Invalid Data"
	case ErrCodeServerError:
		return "Server Error"
	case ErrCodeNetwork:
		return "Network Error"
	case ErrCodeTimeout:
		return "Timeout Error"
	case ErrCodeDocumentRejected:
		return "Invalid Document"
	}
	return "Error"
}

// ==========================
// 2. User-facing messages
// ==========================

const (
	msgBadInputDefault = "Please check your input and try again."
	msgAuthExpired     = "Your session has expired. Please refresh the page and try again."
	msgForbidden       = "You don't have permission to perform this action."
	msgNotFound        = "The requested resource was not found. Please try again."
	msgConflict        = "This information already exists. Please check your details."
	msgUnprocessable   = "The provided information is invalid. Please check your input."
	msgServerError     = "Server error. Please try again later or contact support if the problem persists."
	msgNetwork         = "Network error. Please check your internet connection and try again."
	msgTimeout         = "Request timed out. Please try again."
	msgDefault         = "Something went wrong. Please try again or contact support if the problem persists."
	msgSubjectRequired = "Please complete the Personal Details section first to get your user ID."
)

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: IsRetryableErrorCode(code),
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError carries the field error map in Metadata["fields"].
func NewValidationError(section string, fields map[string]string) *StandardError {
	e := newError(ErrCodeValidationFailed, "Please correct the highlighted fields.", fmt.Sprintf("section: %s, fields: %d", section, len(fields)))
	e.Metadata = map[string]interface{}{"section": section, "fields": fields}
	return e
}

func NewSubjectRequiredError(section string) *StandardError {
	return newError(ErrCodeSubjectRequired, msgSubjectRequired, fmt.Sprintf("section: %s", section))
}

func NewInvalidStepError(details string) *StandardError {
	return newError(ErrCodeInvalidStep, "This step is not available yet.", details)
}

func NewDocumentRejectedError(slot, reason string) *StandardError {
	e := newError(ErrCodeDocumentRejected, reason, fmt.Sprintf("slot: %s", slot))
	e.Metadata = map[string]interface{}{"slot": slot}
	return e
}

func NewPayloadContractError(section, details string) *StandardError {
	return newError(ErrCodePayloadContractViolation, msgUnprocessable, fmt.Sprintf("section: %s, %s", section, details))
}

// NewMissingIDError is returned when a create succeeded but the response
// carried no usable identifier.
func NewMissingIDError(section string) *StandardError {
	return newError(ErrCodeRemoteFailed, msgDefault, fmt.Sprintf("section: %s, create response has no id", section))
}

func NewSessionResumeError(err error) *StandardError {
	e := newError(ErrCodeSessionResumeFailed, "Unable to recover data. Starting fresh with a new form.", err.Error())
	e.cause = err
	return e
}

func NewSessionStoreError(op string, err error) *StandardError {
	e := newError(ErrCodeSessionStoreFailed, "Your progress could not be saved locally.", fmt.Sprintf("op: %s, error: %s", op, err.Error()))
	e.cause = err
	return e
}

func NewNetworkError(err error) *StandardError {
	e := newError(ErrCodeNetwork, msgNetwork, err.Error())
	e.cause = err
	return e
}

func NewTimeoutError(err error) *StandardError {
	e := newError(ErrCodeTimeout, msgTimeout, err.Error())
	e.cause = err
	return e
}

func NewCancelledError(err error) *StandardError {
	e := newError(ErrCodeCancelled, "The request was cancelled.", err.Error())
	e.cause = err
	return e
}

// FromHTTPStatus classifies a non-2xx backend response.
func FromHTTPStatus(status int, body []byte) *StandardError {
	var e *StandardError
	switch {
	case status == http.StatusBadRequest:
		e = newError(ErrCodeBadInput, badInputMessage(body), string(body))
	case status == http.StatusUnauthorized:
		e = newError(ErrCodeAuthExpired, msgAuthExpired, string(body))
	case status == http.StatusForbidden:
		e = newError(ErrCodeForbidden, msgForbidden, string(body))
	case status == http.StatusNotFound:
		e = newError(ErrCodeNotFound, msgNotFound, string(body))
	case status == http.StatusConflict:
		e = newError(ErrCodeConflict, msgConflict, string(body))
	case status == http.StatusUnprocessableEntity:
		e = newError(ErrCodeUnprocessable, msgUnprocessable, string(body))
	case status >= 500:
		e = newError(ErrCodeServerError, msgServerError, string(body))
	default:
		msg := msgDefault
		if m := bodyMessage(body); m != "" {
			msg = m
		}
		e = newError(ErrCodeRemoteFailed, msg, string(body))
	}
	e.Status = status
	return e
}

// badInputMessage joins field messages from a 400 body in document order.
func badInputMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return msgBadInputDefault
	}

	switch trimmed[0] {
	case '{':
		msgs := flattenObject(trimmed)
		if len(msgs) == 0 {
			return msgBadInputDefault
		}
		return strings.Join(msgs, " ")
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil && s != "" {
			return s
		}
		return msgBadInputDefault
	case '[':
		return msgBadInputDefault
	}
	return string(trimmed)
}

func flattenObject(raw []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}

	var out []string
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return out
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return out
		}
		out = append(out, flattenValue(value)...)
	}
	return out
}

func flattenValue(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return []string{s}
		}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err == nil {
			var out []string
			for _, item := range items {
				out = append(out, flattenValue(item)...)
			}
			return out
		}
	case '{':
		return flattenObject(raw)
	case 'n':
		return nil
	}
	return []string{string(raw)}
}

func bodyMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}

// ==========================
// 4. Classification helpers
// ==========================

// IsRetryableErrorCode reports whether re-attempting the same request may succeed.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeNetwork, ErrCodeTimeout, ErrCodeServerError:
		return true
	}
	return false
}

// GetErrorCategory groups codes for metrics and logging.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeValidationFailed, ErrCodePayloadContractViolation, ErrCodeDocumentRejected:
		return "VALIDATION"
	case ErrCodeBadInput, ErrCodeAuthExpired, ErrCodeForbidden, ErrCodeNotFound,
		ErrCodeConflict, ErrCodeUnprocessable, ErrCodeServerError, ErrCodeRemoteFailed:
		return "REMOTE"
	case ErrCodeNetwork, ErrCodeTimeout, ErrCodeCancelled:
		return "TRANSPORT"
	case ErrCodeSubjectRequired, ErrCodeSessionResumeFailed, ErrCodeSessionStoreFailed, ErrCodeInvalidStep:
		return "SESSION"
	}
	return "OTHER"
}

// FieldErrors extracts the field map from a validation error, or nil.
func FieldErrors(err *StandardError) map[string]string {
	if err == nil || err.Metadata == nil {
		return nil
	}
	fields, _ := err.Metadata["fields"].(map[string]string)
	return fields
}

// SortedFields returns field ids in stable order for display.
func SortedFields(fields map[string]string) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

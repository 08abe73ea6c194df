package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents a Twitter API error with type information
type Error struct {
	Type    ErrorType
	Message string
	// Code is the HTTP status, 0 for transport failures.
	Code int
	// APICode is the first Twitter error code from the response body, if any.
	APICode int
	Err     error
}

func (e *Error) Error() string {
	if e.APICode != 0 {
		return fmt.Sprintf("%s error (code %d, twitter code %d): %s", e.Type, e.Code, e.APICode, e.Message)
	}
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error wrapping cause
func New(t ErrorType, code int, message string, cause error) *Error {
	return &Error{Type: t, Code: code, Message: message, Err: cause}
}

// FromResponse builds an error from a non-2xx response status and body.
// Twitter error codes in the body take precedence over the HTTP status.
func FromResponse(status int, body []byte) *Error {
	e := &Error{Type: TypeForStatus(status), Code: status, Message: http.StatusText(status)}

	var payload struct {
		Errors []struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if json.Unmarshal(body, &payload) == nil && len(payload.Errors) > 0 {
		e.APICode = payload.Errors[0].Code
		e.Message = payload.Errors[0].Message
		if t, ok := typeForAPICode(e.APICode); ok {
			e.Type = t
		}
	}
	return e
}

// typeForAPICode maps documented Twitter error codes to error types
func typeForAPICode(code int) (ErrorType, bool) {
	switch code {
	case 32, 89, 99, 135, 215, 326:
		return ErrorTypeAuth, true
	case 88, 185:
		return ErrorTypeRateLimit, true
	case 34, 50, 63, 144:
		return ErrorTypeNotFound, true
	case 130, 131:
		return ErrorTypeServerError, true
	default:
		return "", false
	}
}

// TypeForStatus classifies an HTTP status code
func TypeForStatus(status int) ErrorType {
	switch {
	case status == 0:
		return ErrorTypeNetwork
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrorTypeAuth
	case status == http.StatusNotFound:
		return ErrorTypeNotFound
	case status == http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case status >= 500:
		return ErrorTypeServerError
	default:
		return ErrorTypeUnknown
	}
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeServerError:
		return true
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a transient transport fault.
// 429 is never retryable.
func IsRetryableStatusCode(statusCode int) bool {
	if statusCode == http.StatusNotImplemented {
		return false
	}
	return IsRetryable(TypeForStatus(statusCode))
}

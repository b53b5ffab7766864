package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents a specific error type for gateway operations.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeRateLimitExceeded indicates rate limit has been exceeded.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeUpstreamFailed indicates a store or completion call failed.
	ErrCodeUpstreamFailed ErrorCode = "UPSTREAM_FAILED"
	// ErrCodeGenerationFailed indicates the model output did not match the expected contract.
	ErrCodeGenerationFailed ErrorCode = "GENERATION_FAILED"
)

// GatewayError represents a structured error surfaced by the HTTP layer.
type GatewayError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *GatewayError) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps the error code to an HTTP status code.
func (e *GatewayError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *GatewayError {
	return &GatewayError{Code: ErrCodeInvalidArgument, Message: msg}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *GatewayError {
	return &GatewayError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// UpstreamFailed creates an upstream failure error carrying the cause.
func UpstreamFailed(msg string, cause error) *GatewayError {
	return &GatewayError{Code: ErrCodeUpstreamFailed, Message: msg, Cause: cause}
}

// GenerationFailed creates a generation contract error.
func GenerationFailed(msg string, cause error) *GatewayError {
	return &GatewayError{Code: ErrCodeGenerationFailed, Message: msg, Cause: cause}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	if gwErr, ok := err.(*GatewayError); ok {
		return gwErr.Code == code
	}
	return false
}

package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAPIKey is returned when the API key is missing or rejected
	ErrInvalidAPIKey = errors.New("invalid or missing API key")

	// ErrInvalidRequest is returned when the request is malformed
	ErrInvalidRequest = errors.New("invalid request")

	// ErrRateLimitExceeded is returned when provider rate limits are hit
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrModelNotFound is returned when the requested model doesn't exist
	ErrModelNotFound = errors.New("model not found")

	// ErrTimeout is returned when a request times out
	ErrTimeout = errors.New("request timeout")

	// ErrServiceUnavailable is returned when the provider is down
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrUnknown is returned for anything unclassified
	ErrUnknown = errors.New("unknown error")
)

// ErrorType classifies a provider error
type ErrorType string

const (
	ErrorTypeInvalidRequest     ErrorType = "invalid_request"
	ErrorTypeAuthentication     ErrorType = "authentication"
	ErrorTypeRateLimit          ErrorType = "rate_limit"
	ErrorTypeModelNotFound      ErrorType = "model_not_found"
	ErrorTypeTimeout            ErrorType = "timeout"
	ErrorTypeServiceUnavailable ErrorType = "service_unavailable"
	ErrorTypeUnknown            ErrorType = "unknown"
)

// sentinelFor maps each error type to its sentinel for errors.Is matching
var sentinelFor = map[ErrorType]error{
	ErrorTypeInvalidRequest:     ErrInvalidRequest,
	ErrorTypeAuthentication:     ErrInvalidAPIKey,
	ErrorTypeRateLimit:          ErrRateLimitExceeded,
	ErrorTypeModelNotFound:      ErrModelNotFound,
	ErrorTypeTimeout:            ErrTimeout,
	ErrorTypeServiceUnavailable: ErrServiceUnavailable,
}

// Error is a classified provider error
type Error struct {
	Type          ErrorType
	Message       string
	Provider      Provider
	OriginalError error
}

func (e *Error) Error() string {
	if e.OriginalError != nil {
		return fmt.Sprintf("%s error from %s: %s (original: %v)",
			e.Type, e.Provider, e.Message, e.OriginalError)
	}
	return fmt.Sprintf("%s error from %s: %s", e.Type, e.Provider, e.Message)
}

func (e *Error) Unwrap() error {
	return e.OriginalError
}

func (e *Error) Is(target error) bool {
	sentinel, ok := sentinelFor[e.Type]
	if !ok {
		sentinel = ErrUnknown
	}
	return errors.Is(target, sentinel)
}

// NewError creates a classified provider error
func NewError(provider Provider, errType ErrorType, message string, originalErr error) *Error {
	return &Error{
		Type:          errType,
		Message:       message,
		Provider:      provider,
		OriginalError: originalErr,
	}
}

// IsRetryable reports whether retrying the request could succeed
func IsRetryable(err error) bool {
	var llmErr *Error
	if !errors.As(err, &llmErr) {
		return false
	}
	switch llmErr.Type {
	case ErrorTypeRateLimit, ErrorTypeTimeout, ErrorTypeServiceUnavailable:
		return true
	}
	return false
}

// Package apierrors provides shared error types for the PeerCat client.
package apierrors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingAPIKey is returned when no API key is provided.
	ErrMissingAPIKey = errors.New("API key is required")

	// ErrUnauthorized is returned when the API key is invalid, expired or lacks access.
	ErrUnauthorized = errors.New("invalid or unauthorized API key")

	// ErrInsufficientCredits is returned when the account cannot pay for the request.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when the request parameters are rejected.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrServer is returned when the API fails with a 5xx status.
	ErrServer = errors.New("server error")

	// ErrTransport is returned when the request could not be delivered.
	ErrTransport = errors.New("transport failure")

	// ErrTimeout is returned when an attempt exceeded its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrMalformedResponse is returned when a successful response cannot be decoded.
	ErrMalformedResponse = errors.New("malformed response")
)

// Kind classifies the outcome of a request attempt.
type Kind string

const (
	KindAuthentication      Kind = "authentication"
	KindInsufficientCredits Kind = "insufficient_credits"
	KindRateLimit           Kind = "rate_limit"
	KindInvalidRequest      Kind = "invalid_request"
	KindNotFound            Kind = "not_found"
	KindServer              Kind = "server"
	KindTransport           Kind = "transport"
	KindTimeout             Kind = "timeout"
	KindMalformedResponse   Kind = "malformed_response"
	KindUnknown             Kind = "unknown"
)

// Retryable reports whether re-sending the same request is a reasonable
// recovery for this kind. It depends on the kind alone.
func (k Kind) Retryable() bool {
	switch k {
	case KindRateLimit, KindServer, KindTransport, KindTimeout:
		return true
	default:
		return false
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindAuthentication:
		return ErrUnauthorized
	case KindInsufficientCredits:
		return ErrInsufficientCredits
	case KindRateLimit:
		return ErrRateLimited
	case KindInvalidRequest:
		return ErrInvalidRequest
	case KindNotFound:
		return ErrNotFound
	case KindServer:
		return ErrServer
	case KindTransport:
		return ErrTransport
	case KindTimeout:
		return ErrTimeout
	case KindMalformedResponse:
		return ErrMalformedResponse
	}
	return nil
}

func (k Kind) label() string {
	switch k {
	case KindAuthentication:
		return "authentication error"
	case KindInsufficientCredits:
		return "insufficient credits"
	case KindRateLimit:
		return "rate limit exceeded"
	case KindInvalidRequest:
		return "invalid request"
	case KindNotFound:
		return "not found"
	case KindServer:
		return "server error"
	case KindTransport:
		return "network error"
	case KindTimeout:
		return "request timed out"
	case KindMalformedResponse:
		return "malformed response"
	default:
		return "API error"
	}
}

// RateLimitInfo holds the X-RateLimit-* headers of a response.
type RateLimitInfo struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// Error is the classified outcome of a failed request. Kind selects the
// variant; the remaining fields are populated when the variant carries them.
type Error struct {
	Kind Kind

	// StatusCode is the HTTP status. It is 0 when no response was received.
	StatusCode int
	Code       string
	Message    string

	// Param names the request parameter that caused an invalid request, if reported.
	Param string

	// RetryAfter is the server's retry hint for rate limit errors. nil when absent.
	RetryAfter *time.Duration
	RateLimit  *RateLimitInfo

	RequestID string

	// Attempts is the number of sends performed before the error became terminal.
	Attempts int
	// Waited is the total backoff time spent between those sends.
	Waited time.Duration

	Cause error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.label())
	if e.Kind == KindUnknown && e.StatusCode != 0 {
		fmt.Fprintf(&b, " %d", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	} else if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	if e.Param != "" {
		fmt.Fprintf(&b, " (param: %s)", e.Param)
	}
	if e.RequestID != "" {
		fmt.Fprintf(&b, " (request_id: %s)", e.RequestID)
	}
	return b.String()
}

// Unwrap returns the underlying transport or decode error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for sentinel error matching.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// Retryable reports whether the error's kind is retryable.
func (e *Error) Retryable() bool {
	return e.Kind.Retryable()
}

// PeerCatError implements the PeerCatError interface.
func (e *Error) PeerCatError() {}

// AsError extracts *Error from err.
func AsError(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsRetryable reports whether err is a classified error of a retryable kind.
func IsRetryable(err error) bool {
	pe, ok := AsError(err)
	return ok && pe.Retryable()
}

// KindOf returns the kind of err, or "" when err is not a classified error.
func KindOf(err error) Kind {
	if pe, ok := AsError(err); ok {
		return pe.Kind
	}
	return ""
}

// InvalidParam builds a client-side validation error for a request parameter.
func InvalidParam(param, message string) *Error {
	return &Error{
		Kind:    KindInvalidRequest,
		Code:    "invalid_parameter",
		Message: message,
		Param:   param,
	}
}

package peercat

import (
	"github.com/peercat/peercat-go/internal/apierrors"
)

// Sentinel errors for errors.Is() checks. Every *Error matches the
// sentinel of its Kind.
var (
	// ErrMissingAPIKey is returned by New when no API key is provided.
	ErrMissingAPIKey = apierrors.ErrMissingAPIKey

	// ErrUnauthorized is returned when the API key is invalid, expired or lacks access.
	ErrUnauthorized = apierrors.ErrUnauthorized

	// ErrInsufficientCredits is returned when the balance cannot cover the request.
	ErrInsufficientCredits = apierrors.ErrInsufficientCredits

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = apierrors.ErrRateLimited

	// ErrInvalidRequest is returned when parameters are rejected, locally or by the API.
	ErrInvalidRequest = apierrors.ErrInvalidRequest

	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = apierrors.ErrNotFound

	// ErrServer is returned when the API fails with a 5xx status.
	ErrServer = apierrors.ErrServer

	// ErrTransport is returned when the request could not be delivered.
	ErrTransport = apierrors.ErrTransport

	// ErrTimeout is returned when an attempt exceeded its deadline.
	ErrTimeout = apierrors.ErrTimeout

	// ErrMalformedResponse is returned when a successful response cannot be decoded.
	ErrMalformedResponse = apierrors.ErrMalformedResponse
)

// PeerCatError is implemented by all SDK errors.
type PeerCatError interface {
	error
	PeerCatError() // marker method
}

// Error is the classified failure of an API call. Switch on Kind to
// handle a specific variant.
type Error = apierrors.Error

// Kind classifies a failed call.
type Kind = apierrors.Kind

// Error kinds.
const (
	KindAuthentication      = apierrors.KindAuthentication
	KindInsufficientCredits = apierrors.KindInsufficientCredits
	KindRateLimit           = apierrors.KindRateLimit
	KindInvalidRequest      = apierrors.KindInvalidRequest
	KindNotFound            = apierrors.KindNotFound
	KindServer              = apierrors.KindServer
	KindTransport           = apierrors.KindTransport
	KindTimeout             = apierrors.KindTimeout
	KindMalformedResponse   = apierrors.KindMalformedResponse
	KindUnknown             = apierrors.KindUnknown
)

// RateLimitInfo holds the X-RateLimit-* headers of a response.
type RateLimitInfo = apierrors.RateLimitInfo

var _ PeerCatError = (*Error)(nil)

// AsError extracts *Error from err.
func AsError(err error) (*Error, bool) {
	return apierrors.AsError(err)
}

// IsRetryable reports whether err is a classified error whose kind is worth
// retrying: rate limit, server, transport or timeout.
func IsRetryable(err error) bool {
	return apierrors.IsRetryable(err)
}

// KindOf returns the kind of err, or "" when err is not a classified error
// (for example a context cancellation).
func KindOf(err error) Kind {
	return apierrors.KindOf(err)
}

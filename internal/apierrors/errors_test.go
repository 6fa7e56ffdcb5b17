package apierrors

import (
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "kind only",
			err:      &Error{Kind: KindTimeout},
			expected: "request timed out",
		},
		{
			name:     "with message",
			err:      &Error{Kind: KindAuthentication, Message: "bad key"},
			expected: "authentication error: bad key",
		},
		{
			name:     "with param",
			err:      &Error{Kind: KindInvalidRequest, Message: "unknown model", Param: "model"},
			expected: "invalid request: unknown model (param: model)",
		},
		{
			name:     "with request ID",
			err:      &Error{Kind: KindServer, Message: "boom", RequestID: "req-123"},
			expected: "server error: boom (request_id: req-123)",
		},
		{
			name:     "unknown with status",
			err:      &Error{Kind: KindUnknown, StatusCode: 418, Message: "teapot"},
			expected: "API error 418: teapot",
		},
		{
			name:     "cause used when message empty",
			err:      &Error{Kind: KindTransport, Cause: io.ErrUnexpectedEOF},
			expected: "network error: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestError_Is(t *testing.T) {
	tests := []struct {
		kind   Kind
		target error
	}{
		{KindAuthentication, ErrUnauthorized},
		{KindInsufficientCredits, ErrInsufficientCredits},
		{KindRateLimit, ErrRateLimited},
		{KindInvalidRequest, ErrInvalidRequest},
		{KindNotFound, ErrNotFound},
		{KindServer, ErrServer},
		{KindTransport, ErrTransport},
		{KindTimeout, ErrTimeout},
		{KindMalformedResponse, ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &Error{Kind: tt.kind})
			assert.ErrorIs(t, err, tt.target)
			assert.NotErrorIs(t, err, ErrMissingAPIKey)
		})
	}

	assert.NotErrorIs(t, &Error{Kind: KindUnknown}, ErrServer)
	assert.NotErrorIs(t, &Error{Kind: KindServer}, ErrUnauthorized)
}

func TestKind_Retryable(t *testing.T) {
	retryable := map[Kind]bool{
		KindAuthentication:      false,
		KindInsufficientCredits: false,
		KindInvalidRequest:      false,
		KindNotFound:            false,
		KindMalformedResponse:   false,
		KindUnknown:             false,
		KindRateLimit:           true,
		KindServer:              true,
		KindTransport:           true,
		KindTimeout:             true,
	}

	for kind, want := range retryable {
		assert.Equal(t, want, kind.Retryable(), "kind %s", kind)
		assert.Equal(t, want, IsRetryable(&Error{Kind: kind}), "IsRetryable(%s)", kind)
	}
}

func TestIsRetryable_NonClassified(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(io.EOF))
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &Error{Kind: KindTransport, Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestAsErrorAndKindOf(t *testing.T) {
	ra := 7 * time.Second
	wrapped := fmt.Errorf("generate: %w", &Error{Kind: KindRateLimit, RetryAfter: &ra})

	pe, ok := AsError(wrapped)
	if assert.True(t, ok) {
		assert.Equal(t, 7*time.Second, *pe.RetryAfter)
	}
	assert.Equal(t, KindRateLimit, KindOf(wrapped))
	assert.Equal(t, Kind(""), KindOf(errors.New("other")))

	_, ok = AsError(errors.New("other"))
	assert.False(t, ok)
}

func TestInvalidParam(t *testing.T) {
	err := InvalidParam("prompt", "prompt is required")

	assert.Equal(t, KindInvalidRequest, err.Kind)
	assert.Equal(t, "prompt", err.Param)
	assert.Zero(t, err.StatusCode)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.False(t, err.Retryable())
}

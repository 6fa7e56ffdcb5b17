package api

import (
	"context"
	"time"

	"github.com/peercat/peercat-go/internal/apierrors"
)

// RetryPolicy configures retry behavior for failed requests.
type RetryPolicy struct {
	// MaxRetries is the maximum number of re-sends after the first attempt.
	MaxRetries int
	// BaseDelay is the wait before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps every computed wait and bounds an acceptable server hint.
	MaxDelay time.Duration
}

// DefaultRetryPolicy returns the default retry policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBackoffBase,
		MaxDelay:   DefaultBackoffCap,
	}
}

// Delay returns min(MaxDelay, BaseDelay*2^attempt) for a 0-indexed attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := p.BaseDelay
	for i := 0; i < attempt; i++ {
		if d >= p.MaxDelay/2 {
			d = p.MaxDelay
			break
		}
		d *= 2
	}
	if d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// Next decides whether the failed attempt should be re-sent and how long to
// wait first. A server retry-after hint replaces the computed delay; a hint
// beyond MaxDelay ends the call instead of waiting past the cap.
func (p RetryPolicy) Next(attempt int, err *apierrors.Error) (time.Duration, bool) {
	if err == nil || !err.Retryable() {
		return 0, false
	}
	if attempt >= p.MaxRetries {
		return 0, false
	}
	if err.RetryAfter != nil {
		hint := *err.RetryAfter
		if hint < 0 {
			hint = 0
		}
		if hint > p.MaxDelay {
			return 0, false
		}
		return hint, true
	}
	return p.Delay(attempt), true
}

// RetryEvent describes a retry about to happen.
type RetryEvent struct {
	Method    string
	Path      string
	RequestID string
	// Attempt is the 0-indexed attempt that failed.
	Attempt int
	Delay   time.Duration
	Err     *apierrors.Error
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

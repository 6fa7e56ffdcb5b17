package api

import (
	"context"
	"testing"
	"time"

	"github.com/peercat/peercat-go/internal/apierrors"
)

func durationPtr(d time.Duration) *time.Duration {
	return &d
}

func TestDefaultRetryPolicy(t *testing.T) {
	p := DefaultRetryPolicy()

	if p.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", p.MaxRetries)
	}
	if p.BaseDelay != time.Second {
		t.Errorf("BaseDelay = %v, want 1s", p.BaseDelay)
	}
	if p.MaxDelay != 10*time.Second {
		t.Errorf("MaxDelay = %v, want 10s", p.MaxDelay)
	}
}

func TestRetryPolicy_Delay(t *testing.T) {
	p := RetryPolicy{
		BaseDelay: time.Second,
		MaxDelay:  10 * time.Second,
	}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, time.Second},      // 1 * 2^0 = 1s
		{1, 2 * time.Second},  // 1 * 2^1 = 2s
		{2, 4 * time.Second},  // 1 * 2^2 = 4s
		{3, 8 * time.Second},  // 1 * 2^3 = 8s
		{4, 10 * time.Second}, // 16s, capped at 10s
		{5, 10 * time.Second},
		{62, 10 * time.Second},
		{1000, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			delay := p.Delay(tt.attempt)
			if delay != tt.expected {
				t.Errorf("Delay(%d) = %v, want %v", tt.attempt, delay, tt.expected)
			}
		})
	}
}

func TestRetryPolicy_Delay_NeverExceedsCap(t *testing.T) {
	caps := []time.Duration{0, time.Millisecond, 3 * time.Second, 10 * time.Second, time.Hour}
	bases := []time.Duration{0, time.Millisecond, time.Second, 7 * time.Second, 2 * time.Hour}

	for _, c := range caps {
		for _, b := range bases {
			p := RetryPolicy{BaseDelay: b, MaxDelay: c}
			for attempt := 0; attempt < 80; attempt++ {
				d := p.Delay(attempt)
				if d > c {
					t.Fatalf("Delay(%d) with base %v cap %v = %v, exceeds cap", attempt, b, c, d)
				}
				if d < 0 {
					t.Fatalf("Delay(%d) with base %v cap %v = %v, negative", attempt, b, c, d)
				}
			}
		}
	}
}

func TestRetryPolicy_Next(t *testing.T) {
	p := RetryPolicy{
		MaxRetries: 2,
		BaseDelay:  time.Second,
		MaxDelay:   10 * time.Second,
	}

	tests := []struct {
		name      string
		attempt   int
		err       *apierrors.Error
		wantDelay time.Duration
		wantRetry bool
	}{
		{"server error first attempt", 0, &apierrors.Error{Kind: apierrors.KindServer}, time.Second, true},
		{"server error second attempt", 1, &apierrors.Error{Kind: apierrors.KindServer}, 2 * time.Second, true},
		{"retries exhausted", 2, &apierrors.Error{Kind: apierrors.KindServer}, 0, false},
		{"transport", 0, &apierrors.Error{Kind: apierrors.KindTransport}, time.Second, true},
		{"timeout", 1, &apierrors.Error{Kind: apierrors.KindTimeout}, 2 * time.Second, true},
		{"rate limit without hint", 1, &apierrors.Error{Kind: apierrors.KindRateLimit}, 2 * time.Second, true},
		{"rate limit with hint", 0, &apierrors.Error{Kind: apierrors.KindRateLimit, RetryAfter: durationPtr(7 * time.Second)}, 7 * time.Second, true},
		{"rate limit zero hint", 0, &apierrors.Error{Kind: apierrors.KindRateLimit, RetryAfter: durationPtr(0)}, 0, true},
		{"rate limit hint over cap", 0, &apierrors.Error{Kind: apierrors.KindRateLimit, RetryAfter: durationPtr(60 * time.Second)}, 0, false},
		{"authentication", 0, &apierrors.Error{Kind: apierrors.KindAuthentication}, 0, false},
		{"insufficient credits", 0, &apierrors.Error{Kind: apierrors.KindInsufficientCredits}, 0, false},
		{"invalid request", 0, &apierrors.Error{Kind: apierrors.KindInvalidRequest}, 0, false},
		{"malformed response", 0, &apierrors.Error{Kind: apierrors.KindMalformedResponse}, 0, false},
		{"not found", 0, &apierrors.Error{Kind: apierrors.KindNotFound}, 0, false},
		{"unknown", 0, &apierrors.Error{Kind: apierrors.KindUnknown}, 0, false},
		{"nil error", 0, nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delay, retry := p.Next(tt.attempt, tt.err)
			if retry != tt.wantRetry {
				t.Errorf("Next(%d) retry = %v, want %v", tt.attempt, retry, tt.wantRetry)
			}
			if delay != tt.wantDelay {
				t.Errorf("Next(%d) delay = %v, want %v", tt.attempt, delay, tt.wantDelay)
			}
		})
	}
}

func TestRetryPolicy_Next_ZeroRetries(t *testing.T) {
	p := RetryPolicy{BaseDelay: time.Second, MaxDelay: 10 * time.Second}

	if _, retry := p.Next(0, &apierrors.Error{Kind: apierrors.KindServer}); retry {
		t.Error("Next(0) with MaxRetries=0 should not retry")
	}
}

func TestSleep(t *testing.T) {
	start := time.Now()
	if err := sleep(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatalf("sleep() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Errorf("sleep() returned too early: %v", elapsed)
	}
}

func TestSleep_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := sleep(ctx, 10*time.Second)
	elapsed := time.Since(start)

	if err != context.Canceled {
		t.Errorf("sleep() error = %v, want context.Canceled", err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("sleep() took too long after cancellation: %v", elapsed)
	}
}

func TestSleep_ZeroDurationHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := sleep(ctx, 0); err != context.Canceled {
		t.Errorf("sleep(0) error = %v, want context.Canceled", err)
	}
	if err := sleep(context.Background(), 0); err != nil {
		t.Errorf("sleep(0) error = %v, want nil", err)
	}
}

func BenchmarkRetryPolicy_Delay(b *testing.B) {
	p := DefaultRetryPolicy()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.Delay(i % 8)
	}
}

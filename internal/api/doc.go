// Package api provides HTTP client functionality for communicating with the
// PeerCat API. It handles authentication, request/response serialization,
// outcome classification and automatic retries with capped exponential
// backoff.
//
// # Client Creation
//
// [NewClient] takes a [Config] that is validated once. The API key is sent
// as a bearer token on every request; every attempt of one logical call
// carries the same X-Request-ID.
//
// # Retry Behavior
//
// Each attempt is classified into an [apierrors.Kind]. Rate limit, server,
// transport and timeout failures are retried up to [Config.MaxRetries] times.
// The wait before retry n (0-indexed) is min(BackoffCap, BackoffBase*2^n):
//
//	base=1s cap=10s: 1s, 2s, 4s, 8s, 10s, 10s, ...
//
// A Retry-After hint on a 429 replaces the computed wait. A hint larger
// than the cap is not waited out; the rate limit error is returned instead.
// Authentication, insufficient credits, invalid request, not found and
// malformed response errors are returned after a single attempt.
//
// # Cancellation
//
// Cancelling the context interrupts an in-flight attempt or a backoff wait.
// The context's error is returned and no further attempt is sent.
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use. Its configuration is never
// mutated after construction.
package api

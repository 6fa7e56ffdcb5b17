package peercat

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/peercat/peercat-go/internal/api"
	"github.com/peercat/peercat-go/version"
)

// Defaults for client construction and on-chain polling.
const (
	DefaultBaseURL     = api.DefaultBaseURL
	DefaultTimeout     = api.DefaultTimeout
	DefaultMaxRetries  = api.DefaultMaxRetries
	DefaultBackoffBase = api.DefaultBackoffBase
	DefaultBackoffCap  = api.DefaultBackoffCap

	defaultWaitTimeout     = 5 * time.Minute
	defaultPollInterval    = 2 * time.Second
	defaultMaxPollInterval = 30 * time.Second
	pollBackoffMultiplier  = 1.5
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL     string
	httpClient  *http.Client
	timeout     time.Duration
	retries     int
	backoffBase time.Duration
	backoffCap  time.Duration
	userAgent   string
	rateLimit   rate.Limit
	rateBurst   int
	onRetry     func(RetryEvent)
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		baseURL:     DefaultBaseURL,
		timeout:     DefaultTimeout,
		retries:     DefaultMaxRetries,
		backoffBase: DefaultBackoffBase,
		backoffCap:  DefaultBackoffCap,
		userAgent:   version.UserAgent(),
	}
}

// waitConfig holds configuration for waiting on an on-chain generation.
type waitConfig struct {
	timeout         time.Duration
	pollInterval    time.Duration
	maxPollInterval time.Duration
	onStatus        func(*OnChainGenerationStatus)
}

// Option configures the client.
type Option func(*clientConfig)

// WaitOption configures WaitForOnChain.
type WaitOption func(*waitConfig)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets the HTTP client whose connection pool serves all calls.
// Its own Timeout, if any, applies in addition to WithTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout bounds each attempt. Zero disables the per-attempt timeout.
// Default: 60 seconds
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithRetries sets how many times a retryable failure is re-sent.
// Default: 3
func WithRetries(count int) Option {
	return func(c *clientConfig) {
		c.retries = count
	}
}

// WithBackoff sets the wait before retry n to min(ceiling, base*2^n).
// Default: base 1s, ceiling 10s
func WithBackoff(base, ceiling time.Duration) Option {
	return func(c *clientConfig) {
		c.backoffBase = base
		c.backoffCap = ceiling
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *clientConfig) {
		c.userAgent = userAgent
	}
}

// WithRateLimit throttles attempts to r per second with the given burst,
// shared by every call made through the client.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *clientConfig) {
		c.rateLimit = r
		c.rateBurst = burst
	}
}

// WithOnRetry registers a callback invoked before each backoff wait.
// It runs on the calling goroutine and must not block.
func WithOnRetry(fn func(RetryEvent)) Option {
	return func(c *clientConfig) {
		c.onRetry = fn
	}
}

// WithWaitTimeout bounds the whole wait.
// Default: 5 minutes
func WithWaitTimeout(timeout time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.timeout = timeout
	}
}

// WithPollInterval sets the first interval between status checks. The
// interval grows by half on every unchanged status.
// Default: 2 seconds
func WithPollInterval(interval time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.pollInterval = interval
	}
}

// WithMaxPollInterval caps the interval between status checks.
// Default: 30 seconds
func WithMaxPollInterval(interval time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.maxPollInterval = interval
	}
}

// WithStatusCallback calls fn with every status observed while waiting,
// including the terminal one.
func WithStatusCallback(fn func(*OnChainGenerationStatus)) WaitOption {
	return func(c *waitConfig) {
		c.onStatus = fn
	}
}

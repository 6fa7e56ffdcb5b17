package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/peercat/peercat-go/internal/apierrors"
)

// Default configuration values.
const (
	DefaultBaseURL     = "https://api.peerc.at"
	DefaultTimeout     = 60 * time.Second
	DefaultMaxRetries  = 3
	DefaultBackoffBase = time.Second
	DefaultBackoffCap  = 10 * time.Second
	DefaultUserAgent   = "peercat-go"
)

// Config holds configuration for creating a new API client.
// It is validated once by NewClient and never mutated afterwards.
type Config struct {
	// BaseURL is the API root. Defaults to DefaultBaseURL.
	BaseURL string
	// APIKey is sent as a bearer token on every request. Required.
	APIKey string
	// HTTPClient is the underlying client whose connection pool is shared
	// by all calls. Defaults to a new http.Client without a client timeout.
	HTTPClient *http.Client
	// Timeout bounds a single attempt. Zero disables the per-attempt timeout.
	Timeout time.Duration
	// MaxRetries is the number of re-sends after the first attempt.
	MaxRetries int
	// BackoffBase and BackoffCap define the wait before retry n as
	// min(BackoffCap, BackoffBase*2^n).
	BackoffBase time.Duration
	BackoffCap  time.Duration
	// UserAgent defaults to DefaultUserAgent.
	UserAgent string
	// RateLimiter throttles attempts across all calls. Optional.
	RateLimiter *rate.Limiter
	// OnRetry is called before each backoff wait. Optional.
	OnRetry func(RetryEvent)
}

// DefaultConfig returns a Config with every optional field at its default.
func DefaultConfig(apiKey string) Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		APIKey:      apiKey,
		Timeout:     DefaultTimeout,
		MaxRetries:  DefaultMaxRetries,
		BackoffBase: DefaultBackoffBase,
		BackoffCap:  DefaultBackoffCap,
		UserAgent:   DefaultUserAgent,
	}
}

// Client is the HTTP API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	retry      RetryPolicy
	limiter    *rate.Limiter
	onRetry    func(RetryEvent)

	// sleep and newRequestID are replaced in tests.
	sleep        func(ctx context.Context, d time.Duration) error
	newRequestID func() string
}

// NewClient creates a new API client from the given configuration.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, apierrors.ErrMissingAPIKey
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be non-negative, got %v", cfg.Timeout)
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("max retries must be non-negative, got %d", cfg.MaxRetries)
	}
	if cfg.BackoffBase < 0 || cfg.BackoffCap < 0 {
		return nil, fmt.Errorf("backoff base and cap must be non-negative, got %v and %v", cfg.BackoffBase, cfg.BackoffCap)
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("base URL must start with http:// or https://, got %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		timeout:    cfg.Timeout,
		userAgent:  userAgent,
		retry: RetryPolicy{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  cfg.BackoffBase,
			MaxDelay:   cfg.BackoffCap,
		},
		limiter:      cfg.RateLimiter,
		onRetry:      cfg.OnRetry,
		sleep:        sleep,
		newRequestID: uuid.NewString,
	}, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RetryPolicy returns the retry policy derived from the configuration.
func (c *Client) RetryPolicy() RetryPolicy {
	return c.retry
}

// Request describes one logical API call. All attempts of the call share it.
type Request struct {
	Method    string
	Path      string
	Body      []byte
	RequestID string
}

// Do sends a JSON request and decodes a successful response into result.
// body and result may be nil. Retryable failures are re-sent according to
// the client's retry policy; the returned error is either a classified
// *apierrors.Error or the context's error when ctx ended first.
func (c *Client) Do(ctx context.Context, method, path string, body, result any) error {
	req := Request{
		Method:    method,
		Path:      path,
		RequestID: c.newRequestID(),
	}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		req.Body = data
	}
	return c.Execute(ctx, req, result)
}

// Execute runs req through the send, classify, wait loop.
func (c *Client) Execute(ctx context.Context, req Request, result any) error {
	var waited time.Duration
	for attempt := 0; ; attempt++ {
		err := c.send(ctx, req, result)
		if err == nil {
			return nil
		}

		apiErr, ok := apierrors.AsError(err)
		if !ok {
			return err
		}
		apiErr.Attempts = attempt + 1
		apiErr.Waited = waited

		delay, retry := c.retry.Next(attempt, apiErr)
		if !retry {
			return apiErr
		}

		if c.onRetry != nil {
			c.onRetry(RetryEvent{
				Method:    req.Method,
				Path:      req.Path,
				RequestID: req.RequestID,
				Attempt:   attempt,
				Delay:     delay,
				Err:       apiErr,
			})
		}

		if err := c.sleep(ctx, delay); err != nil {
			return err
		}
		waited += delay
	}
}

// send performs a single attempt and classifies its outcome.
func (c *Client) send(ctx context.Context, req Request, result any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	attemptCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	httpReq, err := c.newHTTPRequest(attemptCtx, req)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return classifyTransportError(err, req.RequestID)
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		var encErr *encodingError
		if errors.As(err, &encErr) {
			return &apierrors.Error{
				Kind:       apierrors.KindMalformedResponse,
				StatusCode: resp.StatusCode,
				Code:       "decode_error",
				Message:    encErr.Error(),
				RequestID:  req.RequestID,
				Cause:      err,
			}
		}
		return classifyTransportError(err, req.RequestID)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return decodeSuccess(data, result, req.RequestID)
	}
	return classifyResponse(resp, data, req.RequestID, time.Now())
}

func (c *Client) newHTTPRequest(ctx context.Context, req Request) (*http.Request, error) {
	var bodyReader io.Reader
	if req.Body != nil {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Accept-Encoding", acceptEncoding)
	httpReq.Header.Set("User-Agent", c.userAgent)
	if req.RequestID != "" {
		httpReq.Header.Set("X-Request-ID", req.RequestID)
	}
	return httpReq, nil
}

func decodeSuccess(data []byte, result any, requestID string) error {
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		var syntaxErr *json.SyntaxError
		msg := "failed to decode response"
		if errors.As(err, &syntaxErr) || len(data) == 0 {
			msg = "response body is not valid JSON"
		}
		return &apierrors.Error{
			Kind:      apierrors.KindMalformedResponse,
			Code:      "decode_error",
			Message:   msg,
			RequestID: requestID,
			Cause:     err,
		}
	}
	return nil
}

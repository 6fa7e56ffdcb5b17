package peercat

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/peercat/peercat-go/internal/api"
	"github.com/peercat/peercat-go/internal/apierrors"
)

// Client is a PeerCat API client. It is safe for concurrent use; all calls
// share one connection pool and one optional rate limiter.
type Client struct {
	apiClient *api.Client
}

// New creates a new PeerCat client with the given API key.
func New(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	apiClient, err := buildAPIClient(apiKey, cfg)
	if err != nil {
		return nil, err
	}
	return &Client{apiClient: apiClient}, nil
}

// buildAPIClient creates the executor from the given config.
func buildAPIClient(apiKey string, cfg *clientConfig) (*api.Client, error) {
	if cfg.rateLimit < 0 || cfg.rateBurst < 0 {
		return nil, fmt.Errorf("rate limit and burst must be non-negative, got %v and %d", cfg.rateLimit, cfg.rateBurst)
	}

	apiCfg := api.Config{
		BaseURL:     cfg.baseURL,
		APIKey:      apiKey,
		HTTPClient:  cfg.httpClient,
		Timeout:     cfg.timeout,
		MaxRetries:  cfg.retries,
		BackoffBase: cfg.backoffBase,
		BackoffCap:  cfg.backoffCap,
		UserAgent:   cfg.userAgent,
		OnRetry:     cfg.onRetry,
	}
	if cfg.rateLimit > 0 {
		burst := cfg.rateBurst
		if burst == 0 {
			burst = 1
		}
		apiCfg.RateLimiter = rate.NewLimiter(cfg.rateLimit, burst)
	}
	return api.NewClient(apiCfg)
}

// BaseURL returns the API base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.apiClient.BaseURL()
}

// Generate creates an image from a prompt. In ModeProduction the balance is
// charged; ModeDemo returns a placeholder free of charge.
func (c *Client) Generate(ctx context.Context, params GenerateParams) (*GenerateResult, error) {
	if err := validatePrompt(params.Prompt); err != nil {
		return nil, err
	}
	return c.apiClient.Generate(ctx, api.GenerateRequest{
		Prompt:  params.Prompt,
		Model:   params.Model,
		Mode:    params.Mode,
		Options: params.Options,
	})
}

// Models lists the available image generation models.
func (c *Client) Models(ctx context.Context) ([]Model, error) {
	return c.apiClient.GetModels(ctx)
}

// Prices returns current per-model prices in USD and SOL.
func (c *Client) Prices(ctx context.Context) (*PriceResponse, error) {
	return c.apiClient.GetPrices(ctx)
}

// Balance returns the credit balance of the account.
func (c *Client) Balance(ctx context.Context) (*Balance, error) {
	return c.apiClient.GetBalance(ctx)
}

// History returns one page of usage history.
func (c *Client) History(ctx context.Context, params HistoryParams) (*HistoryResponse, error) {
	if params.Limit < 0 || params.Limit > MaxHistoryLimit {
		return nil, apierrors.InvalidParam("limit", fmt.Sprintf("limit must be between 0 and %d, got %d", MaxHistoryLimit, params.Limit))
	}
	if params.Offset < 0 {
		return nil, apierrors.InvalidParam("offset", fmt.Sprintf("offset must be non-negative, got %d", params.Offset))
	}
	return c.apiClient.GetHistory(ctx, params.Limit, params.Offset)
}

// AllHistory pages through the full usage history, pageSize items at a
// time. A pageSize of 0 uses MaxHistoryLimit.
func (c *Client) AllHistory(ctx context.Context, pageSize int) ([]HistoryItem, error) {
	if pageSize == 0 {
		pageSize = MaxHistoryLimit
	}

	var items []HistoryItem
	offset := 0
	for {
		page, err := c.History(ctx, HistoryParams{Limit: pageSize, Offset: offset})
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)

		if !page.Pagination.HasMore || len(page.Items) == 0 {
			return items, nil
		}
		offset += len(page.Items)
	}
}

// CreateKey creates an API key for the wallet that signed params.Message.
// The secret is only returned by this call.
func (c *Client) CreateKey(ctx context.Context, params CreateKeyParams) (*CreateKeyResult, error) {
	switch {
	case params.Message == "":
		return nil, apierrors.InvalidParam("message", "message is required")
	case params.Signature == "":
		return nil, apierrors.InvalidParam("signature", "signature is required")
	case params.PublicKey == "":
		return nil, apierrors.InvalidParam("publicKey", "public key is required")
	}
	return c.apiClient.CreateKey(ctx, api.CreateKeyRequest{
		Name:      params.Name,
		Message:   params.Message,
		Signature: params.Signature,
		PublicKey: params.PublicKey,
	})
}

// ListKeys lists the API keys of the account. Secrets are never included.
func (c *Client) ListKeys(ctx context.Context) ([]APIKey, error) {
	return c.apiClient.ListKeys(ctx)
}

// RevokeKey permanently revokes an API key.
func (c *Client) RevokeKey(ctx context.Context, keyID string) error {
	if strings.TrimSpace(keyID) == "" {
		return apierrors.InvalidParam("keyId", "key ID is required")
	}
	return c.apiClient.RevokeKey(ctx, keyID)
}

// RenameKey changes the display name of an API key.
func (c *Client) RenameKey(ctx context.Context, keyID, name string) error {
	if strings.TrimSpace(keyID) == "" {
		return apierrors.InvalidParam("keyId", "key ID is required")
	}
	return c.apiClient.UpdateKeyName(ctx, keyID, name)
}

// SubmitPrompt registers a prompt for on-chain payment. The returned
// submission tells where to send how much SOL, and with which memo.
func (c *Client) SubmitPrompt(ctx context.Context, params SubmitPromptParams) (*PromptSubmission, error) {
	if err := validatePrompt(params.Prompt); err != nil {
		return nil, err
	}
	return c.apiClient.SubmitPrompt(ctx, api.SubmitPromptRequest{
		Prompt:      params.Prompt,
		Model:       params.Model,
		Options:     params.Options,
		CallbackURL: params.CallbackURL,
	})
}

// OnChainStatus returns the state of the generation paid for by txSignature.
func (c *Client) OnChainStatus(ctx context.Context, txSignature string) (*OnChainGenerationStatus, error) {
	if strings.TrimSpace(txSignature) == "" {
		return nil, apierrors.InvalidParam("txSignature", "transaction signature is required")
	}
	return c.apiClient.GetOnChainStatus(ctx, txSignature)
}

func validatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return apierrors.InvalidParam("prompt", "prompt is required")
	}
	if n := utf8.RuneCountInString(prompt); n > MaxPromptLength {
		return apierrors.InvalidParam("prompt", fmt.Sprintf("prompt is %d characters, maximum is %d", n, MaxPromptLength))
	}
	return nil
}

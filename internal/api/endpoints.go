package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Generate creates an image from a prompt.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	var result GenerateResponse
	if err := c.Do(ctx, http.MethodPost, "/v1/generate", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetModels lists the available image generation models.
func (c *Client) GetModels(ctx context.Context) ([]Model, error) {
	var result ModelsResponse
	if err := c.Do(ctx, http.MethodGet, "/v1/models", nil, &result); err != nil {
		return nil, err
	}
	return result.Models, nil
}

// GetPrices returns current pricing for all models.
func (c *Client) GetPrices(ctx context.Context) (*PriceResponse, error) {
	var result PriceResponse
	if err := c.Do(ctx, http.MethodGet, "/v1/price", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetBalance returns the credit balance of the authenticated account.
func (c *Client) GetBalance(ctx context.Context) (*Balance, error) {
	var result Balance
	if err := c.Do(ctx, http.MethodGet, "/v1/balance", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetHistory returns one page of usage history. Zero limit or offset is omitted.
func (c *Client) GetHistory(ctx context.Context, limit, offset int) (*HistoryResponse, error) {
	path := "/v1/history"
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var result HistoryResponse
	if err := c.Do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateKey creates an API key for the wallet that signed the request.
func (c *Client) CreateKey(ctx context.Context, req CreateKeyRequest) (*CreateKeyResponse, error) {
	var result CreateKeyResponse
	if err := c.Do(ctx, http.MethodPost, "/v1/keys", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListKeys lists the API keys of the authenticated wallet.
func (c *Client) ListKeys(ctx context.Context) ([]APIKey, error) {
	var result KeysResponse
	if err := c.Do(ctx, http.MethodGet, "/v1/keys", nil, &result); err != nil {
		return nil, err
	}
	return result.Keys, nil
}

// RevokeKey revokes an API key.
func (c *Client) RevokeKey(ctx context.Context, keyID string) error {
	var result successResponse
	return c.Do(ctx, http.MethodDelete, "/v1/keys/"+url.PathEscape(keyID), nil, &result)
}

// UpdateKeyName renames an API key.
func (c *Client) UpdateKeyName(ctx context.Context, keyID, name string) error {
	var result successResponse
	return c.Do(ctx, http.MethodPatch, "/v1/keys/"+url.PathEscape(keyID), updateKeyRequest{Name: name}, &result)
}

// SubmitPrompt registers a prompt to be paid for on-chain.
func (c *Client) SubmitPrompt(ctx context.Context, req SubmitPromptRequest) (*PromptSubmission, error) {
	var result PromptSubmission
	if err := c.Do(ctx, http.MethodPost, "/v1/prompts", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetOnChainStatus returns the state of an on-chain generation by transaction signature.
func (c *Client) GetOnChainStatus(ctx context.Context, txSignature string) (*OnChainGenerationStatus, error) {
	var result OnChainGenerationStatus
	if err := c.Do(ctx, http.MethodGet, "/v1/generate/"+url.PathEscape(txSignature), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

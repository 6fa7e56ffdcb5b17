package peercat

import (
	"context"
	"strings"
	"time"

	"github.com/peercat/peercat-go/internal/apierrors"
)

// WaitForOnChain polls the status of an on-chain generation until it
// reaches a terminal state (completed, failed or refunded) and returns that
// status. A failed or refunded generation is not an error; inspect Status.
//
// A not-found answer is treated as a transaction the API has not indexed
// yet and polling continues. Other errors end the wait. When the wait
// times out or ctx is cancelled, the context's error is returned.
//
// Example:
//
//	status, err := client.WaitForOnChain(ctx, txSig,
//	    peercat.WithWaitTimeout(2*time.Minute),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if status.Status == peercat.OnChainCompleted {
//	    fmt.Println(status.ImageURL)
//	}
func (c *Client) WaitForOnChain(ctx context.Context, txSignature string, opts ...WaitOption) (*OnChainGenerationStatus, error) {
	if strings.TrimSpace(txSignature) == "" {
		return nil, apierrors.InvalidParam("txSignature", "transaction signature is required")
	}

	cfg := &waitConfig{
		timeout:         defaultWaitTimeout,
		pollInterval:    defaultPollInterval,
		maxPollInterval: defaultMaxPollInterval,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.pollInterval <= 0 {
		cfg.pollInterval = defaultPollInterval
	}
	if cfg.maxPollInterval < cfg.pollInterval {
		cfg.maxPollInterval = cfg.pollInterval
	}

	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	interval := cfg.pollInterval
	var last OnChainStatus
	for {
		status, err := c.apiClient.GetOnChainStatus(ctx, txSignature)
		switch {
		case err == nil:
			if cfg.onStatus != nil {
				cfg.onStatus(status)
			}
			if status.Status.Terminal() {
				return status, nil
			}
			if status.Status != last {
				last = status.Status
				interval = cfg.pollInterval
			} else {
				interval = nextPollInterval(interval, cfg.maxPollInterval)
			}
		case apierrors.KindOf(err) == apierrors.KindNotFound:
			interval = nextPollInterval(interval, cfg.maxPollInterval)
		default:
			return nil, err
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func nextPollInterval(current, ceiling time.Duration) time.Duration {
	next := time.Duration(float64(current) * pollBackoffMultiplier)
	if next > ceiling {
		return ceiling
	}
	return next
}

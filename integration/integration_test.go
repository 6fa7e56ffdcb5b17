//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/peercat/peercat-go"
	"github.com/peercat/peercat-go/wallet"
)

var (
	apiKey  string
	baseURL string
)

func TestMain(m *testing.M) {
	// Load .env file if it exists (won't error if missing)
	if err := godotenv.Load("../.env"); err != nil {
		os.Stderr.WriteString("Note: .env file not found at project root\n")
	}

	apiKey = os.Getenv("PEERCAT_API_KEY")
	baseURL = os.Getenv("PEERCAT_BASE_URL")

	if apiKey == "" {
		os.Stderr.WriteString("Skipping integration tests: PEERCAT_API_KEY not set\n")
		os.Exit(0)
	}
	if baseURL == "" {
		baseURL = peercat.DefaultBaseURL
	}

	os.Stderr.WriteString("Running integration tests...\n")
	os.Stderr.WriteString("API URL: " + baseURL + "\n")

	os.Exit(m.Run())
}

func newClient(t *testing.T, key string) *peercat.Client {
	t.Helper()

	client, err := peercat.New(key,
		peercat.WithBaseURL(baseURL),
		peercat.WithTimeout(30*time.Second),
		peercat.WithOnRetry(func(ev peercat.RetryEvent) {
			t.Logf("retry %d for %s %s in %v: %v", ev.Attempt, ev.Method, ev.Path, ev.Delay, ev.Err)
		}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)
	return ctx
}

func TestIntegration_Models(t *testing.T) {
	client := newClient(t, apiKey)

	models, err := client.Models(testContext(t))
	if err != nil {
		t.Fatalf("Models() error = %v", err)
	}
	if len(models) == 0 {
		t.Fatal("Models() returned no models")
	}
	for _, m := range models {
		if m.ID == "" {
			t.Error("model with empty ID")
		}
		t.Logf("model %s (%s) $%.4f", m.ID, m.Provider, m.PriceUSD)
	}
}

func TestIntegration_Prices(t *testing.T) {
	client := newClient(t, apiKey)

	prices, err := client.Prices(testContext(t))
	if err != nil {
		t.Fatalf("Prices() error = %v", err)
	}
	if prices.SOLPrice <= 0 {
		t.Errorf("SOLPrice = %v, want > 0", prices.SOLPrice)
	}
	if prices.Treasury == "" {
		t.Error("Treasury is empty")
	}
}

func TestIntegration_Balance(t *testing.T) {
	client := newClient(t, apiKey)

	balance, err := client.Balance(testContext(t))
	if err != nil {
		t.Fatalf("Balance() error = %v", err)
	}
	if balance.Credits < 0 {
		t.Errorf("Credits = %v, want >= 0", balance.Credits)
	}
}

func TestIntegration_History(t *testing.T) {
	client := newClient(t, apiKey)

	history, err := client.History(testContext(t), peercat.HistoryParams{Limit: 5})
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history.Items) > 5 {
		t.Errorf("len(Items) = %d, want <= 5", len(history.Items))
	}
	if history.Pagination.Limit != 5 {
		t.Errorf("Pagination.Limit = %d, want 5", history.Pagination.Limit)
	}
}

func TestIntegration_GenerateDemo(t *testing.T) {
	client := newClient(t, apiKey)

	result, err := client.Generate(testContext(t), peercat.GenerateParams{
		Prompt: "integration test: a small red cube",
		Mode:   peercat.ModeDemo,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.ImageURL == "" {
		t.Error("ImageURL is empty")
	}
	if result.Mode != peercat.ModeDemo {
		t.Errorf("Mode = %s, want demo", result.Mode)
	}
}

func TestIntegration_ListKeys(t *testing.T) {
	client := newClient(t, apiKey)

	keys, err := client.ListKeys(testContext(t))
	if err != nil {
		t.Fatalf("ListKeys() error = %v", err)
	}
	if len(keys) == 0 {
		t.Error("ListKeys() returned no keys, want at least the one in use")
	}
}

func TestIntegration_InvalidKey(t *testing.T) {
	client := newClient(t, "pk_test_invalid")

	_, err := client.Balance(testContext(t))
	if !errors.Is(err, peercat.ErrUnauthorized) {
		t.Fatalf("Balance() error = %v, want ErrUnauthorized", err)
	}

	pe, ok := peercat.AsError(err)
	if !ok {
		t.Fatal("AsError() = false")
	}
	if pe.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", pe.Attempts)
	}
}

func TestIntegration_OnChainStatusUnknownTx(t *testing.T) {
	client := newClient(t, apiKey)

	kp, err := wallet.Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	// Any well-formed signature that was never submitted.
	sig := kp.Sign([]byte("never submitted"))

	_, err = client.OnChainStatus(testContext(t), sig)
	if peercat.KindOf(err) != peercat.KindNotFound && peercat.KindOf(err) != peercat.KindInvalidRequest {
		t.Errorf("OnChainStatus() error = %v, want not_found or invalid_request", err)
	}
}

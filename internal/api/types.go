package api

import "time"

// GenerationMode selects between billed and free placeholder generation.
type GenerationMode string

const (
	ModeProduction GenerationMode = "production"
	ModeDemo       GenerationMode = "demo"
)

// HistoryStatus is the state of a usage record.
type HistoryStatus string

const (
	HistoryPending   HistoryStatus = "pending"
	HistoryCompleted HistoryStatus = "completed"
	HistoryRefunded  HistoryStatus = "refunded"
)

// KeyEnvironment is the environment an API key belongs to.
type KeyEnvironment string

const (
	EnvironmentLive KeyEnvironment = "live"
	EnvironmentTest KeyEnvironment = "test"
)

// OnChainStatus is the state of an on-chain paid generation.
type OnChainStatus string

const (
	OnChainPending    OnChainStatus = "pending"
	OnChainProcessing OnChainStatus = "processing"
	OnChainCompleted  OnChainStatus = "completed"
	OnChainFailed     OnChainStatus = "failed"
	OnChainRefunded   OnChainStatus = "refunded"
)

// Terminal reports whether no further status change is expected.
func (s OnChainStatus) Terminal() bool {
	switch s {
	case OnChainCompleted, OnChainFailed, OnChainRefunded:
		return true
	default:
		return false
	}
}

// Model represents an entry of the /v1/models response.
type Model struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	Provider         string  `json:"provider"`
	MaxPromptLength  int     `json:"maxPromptLength"`
	OutputFormat     string  `json:"outputFormat"`
	OutputResolution string  `json:"outputResolution"`
	PriceUSD         float64 `json:"priceUsd"`
}

// ModelsResponse represents the /v1/models response.
type ModelsResponse struct {
	Models []Model `json:"models"`
}

// ModelPrice is the price of one model.
type ModelPrice struct {
	Model                string  `json:"model"`
	PriceUSD             float64 `json:"priceUsd"`
	PriceSOL             float64 `json:"priceSol"`
	PriceSOLWithSlippage float64 `json:"priceSolWithSlippage"`
}

// PriceResponse represents the /v1/price response.
type PriceResponse struct {
	SOLPrice          float64      `json:"solPrice"`
	SlippageTolerance float64      `json:"slippageTolerance"`
	UpdatedAt         time.Time    `json:"updatedAt"`
	Treasury          string       `json:"treasury"`
	Models            []ModelPrice `json:"models"`
}

// GenerateRequest represents the POST /v1/generate request.
type GenerateRequest struct {
	Prompt  string         `json:"prompt"`
	Model   string         `json:"model,omitempty"`
	Mode    GenerationMode `json:"mode,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

// GenerateUsage reports the credits charged for a generation.
type GenerateUsage struct {
	CreditsUsed      float64 `json:"creditsUsed"`
	BalanceRemaining float64 `json:"balanceRemaining"`
}

// GenerateResponse represents the POST /v1/generate response.
type GenerateResponse struct {
	ID       string         `json:"id"`
	ImageURL string         `json:"imageUrl"`
	IPFSHash string         `json:"ipfsHash,omitempty"`
	Model    string         `json:"model"`
	Mode     GenerationMode `json:"mode"`
	Usage    GenerateUsage  `json:"usage"`
}

// Balance represents the /v1/balance response.
type Balance struct {
	Credits        float64 `json:"credits"`
	TotalDeposited float64 `json:"totalDeposited"`
	TotalSpent     float64 `json:"totalSpent"`
	TotalWithdrawn float64 `json:"totalWithdrawn"`
	TotalGenerated int64   `json:"totalGenerated"`
}

// HistoryItem is a single usage record.
type HistoryItem struct {
	ID          string        `json:"id"`
	Endpoint    string        `json:"endpoint"`
	Model       string        `json:"model,omitempty"`
	CreditsUsed float64       `json:"creditsUsed"`
	RequestID   string        `json:"requestId,omitempty"`
	Status      HistoryStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
}

// Pagination describes a page of a list response.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// HistoryResponse represents the /v1/history response.
type HistoryResponse struct {
	Items      []HistoryItem `json:"items"`
	Pagination Pagination    `json:"pagination"`
}

// CreateKeyRequest represents the POST /v1/keys request.
type CreateKeyRequest struct {
	Name      string `json:"name,omitempty"`
	Message   string `json:"message"`
	Signature string `json:"signature"`
	PublicKey string `json:"publicKey"`
}

// APIKey describes an API key without its secret.
type APIKey struct {
	ID            string         `json:"id"`
	Name          string         `json:"name,omitempty"`
	KeyPrefix     string         `json:"keyPrefix"`
	Environment   KeyEnvironment `json:"environment"`
	RateLimitTier string         `json:"rateLimitTier"`
	CreatedAt     time.Time      `json:"createdAt"`
	LastUsedAt    *time.Time     `json:"lastUsedAt,omitempty"`
	Revoked       bool           `json:"revoked"`
}

// CreateKeyResponse represents the POST /v1/keys response. Key is only
// returned once.
type CreateKeyResponse struct {
	ID          string         `json:"id"`
	Key         string         `json:"key"`
	KeyPrefix   string         `json:"keyPrefix"`
	Name        string         `json:"name,omitempty"`
	Environment KeyEnvironment `json:"environment"`
	CreatedAt   time.Time      `json:"createdAt"`
	Warning     string         `json:"warning"`
}

// KeysResponse represents the GET /v1/keys response.
type KeysResponse struct {
	Keys []APIKey `json:"keys"`
}

type updateKeyRequest struct {
	Name string `json:"name"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// SubmitPromptRequest represents the POST /v1/prompts request.
type SubmitPromptRequest struct {
	Prompt      string         `json:"prompt"`
	Model       string         `json:"model,omitempty"`
	Options     map[string]any `json:"options,omitempty"`
	CallbackURL string         `json:"callbackUrl,omitempty"`
}

// RequiredAmount is a payment amount in several units.
type RequiredAmount struct {
	SOL      float64 `json:"sol"`
	Lamports uint64  `json:"lamports"`
	USD      float64 `json:"usd"`
}

// PromptSubmission represents the POST /v1/prompts response.
type PromptSubmission struct {
	SubmissionID      string            `json:"submissionId"`
	PromptHash        string            `json:"promptHash"`
	PaymentAddress    string            `json:"paymentAddress"`
	RequiredAmount    RequiredAmount    `json:"requiredAmount"`
	Memo              string            `json:"memo"`
	Model             string            `json:"model"`
	SlippageTolerance float64           `json:"slippageTolerance"`
	ExpiresAt         time.Time         `json:"expiresAt"`
	Instructions      map[string]string `json:"instructions,omitempty"`
}

// OnChainGenerationStatus represents the GET /v1/generate/{tx} response.
type OnChainGenerationStatus struct {
	TxSignature string        `json:"txSignature"`
	Status      OnChainStatus `json:"status"`
	Model       string        `json:"model,omitempty"`
	CreatedAt   *time.Time    `json:"createdAt,omitempty"`
	ImageURL    string        `json:"imageUrl,omitempty"`
	IPFSHash    string        `json:"ipfsHash,omitempty"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
	Error       string        `json:"error,omitempty"`
	Message     string        `json:"message,omitempty"`
}

package peercat

import (
	"github.com/peercat/peercat-go/internal/api"
)

// MaxPromptLength is the longest prompt, in characters, the API accepts.
const MaxPromptLength = 2000

// MaxHistoryLimit is the largest page size accepted by History.
const MaxHistoryLimit = 100

// GenerationMode selects between billed and free placeholder generation.
type GenerationMode = api.GenerationMode

// Generation modes.
const (
	// ModeProduction generates a real image and deducts credits.
	ModeProduction = api.ModeProduction
	// ModeDemo returns a placeholder image without charge.
	ModeDemo = api.ModeDemo
)

// HistoryStatus is the state of a usage record.
type HistoryStatus = api.HistoryStatus

// History statuses.
const (
	HistoryPending   = api.HistoryPending
	HistoryCompleted = api.HistoryCompleted
	HistoryRefunded  = api.HistoryRefunded
)

// KeyEnvironment is the environment an API key belongs to.
type KeyEnvironment = api.KeyEnvironment

// Key environments.
const (
	EnvironmentLive = api.EnvironmentLive
	EnvironmentTest = api.EnvironmentTest
)

// OnChainStatus is the state of an on-chain paid generation.
type OnChainStatus = api.OnChainStatus

// On-chain statuses. Completed, failed and refunded are terminal.
const (
	OnChainPending    = api.OnChainPending
	OnChainProcessing = api.OnChainProcessing
	OnChainCompleted  = api.OnChainCompleted
	OnChainFailed     = api.OnChainFailed
	OnChainRefunded   = api.OnChainRefunded
)

// Response types.
type (
	Model                   = api.Model
	ModelPrice              = api.ModelPrice
	PriceResponse           = api.PriceResponse
	GenerateResult          = api.GenerateResponse
	GenerateUsage           = api.GenerateUsage
	Balance                 = api.Balance
	HistoryItem             = api.HistoryItem
	Pagination              = api.Pagination
	HistoryResponse         = api.HistoryResponse
	APIKey                  = api.APIKey
	CreateKeyResult         = api.CreateKeyResponse
	RequiredAmount          = api.RequiredAmount
	PromptSubmission        = api.PromptSubmission
	OnChainGenerationStatus = api.OnChainGenerationStatus
	RetryEvent              = api.RetryEvent
)

// GenerateParams are the parameters of Generate.
type GenerateParams struct {
	// Prompt describes the image. Required, at most MaxPromptLength characters.
	Prompt string
	// Model defaults to the server's default model when empty.
	Model string
	// Mode defaults to ModeProduction.
	Mode GenerationMode
	// Options are passed through to the model.
	Options map[string]any
}

// HistoryParams select a page of usage history. Zero values use server defaults.
type HistoryParams struct {
	Limit  int
	Offset int
}

// CreateKeyParams carry a wallet-signed message authorizing key creation.
// See the wallet package for building them.
type CreateKeyParams struct {
	Name      string
	Message   string
	Signature string
	PublicKey string
}

// SubmitPromptParams are the parameters of SubmitPrompt.
type SubmitPromptParams struct {
	Prompt      string
	Model       string
	Options     map[string]any
	CallbackURL string
}

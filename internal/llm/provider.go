package llm

import (
	"context"
)

// Provider defines the interface for oracle backends.
// Providers return the oracle's raw textual payload without interpreting it;
// normalization is the caller's job.
type Provider interface {
	// Generate submits one instruction document to the backend.
	Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)

	// Name returns the provider name (e.g., "gemini", "openai")
	Name() string
}

// GenerationRequest contains all parameters needed for one oracle call
type GenerationRequest struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
}

// GenerationResponse contains the raw result from the oracle
type GenerationResponse struct {
	RawOutput string     `json:"raw_output"`
	Usage     TokenUsage `json:"usage"`
}

// TokenUsage carries token counts in a provider-neutral shape
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

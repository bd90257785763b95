package llm

import (
	"context"
)

// Provider abstracts a generation backend (OpenAI, Anthropic, Ollama).
// Selecting a provider is a configuration concern: callers depend on this
// interface only and never change when the backend is swapped.
type Provider interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	Healthy(ctx context.Context) error
	Name() string
}

// GenerateRequest carries the compiled prompt pair to a provider.
type GenerateRequest struct {
	System      string
	User        string
	Model       string
	MaxTokens   int
	Temperature float64
}

// GenerateResponse is the raw model output plus usage accounting.
type GenerateResponse struct {
	Content      string
	Model        string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Attempts     int
}

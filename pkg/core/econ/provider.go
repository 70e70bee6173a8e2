package econ

import (
	"context"
)

// Provider is the interface for all LLM research providers.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}

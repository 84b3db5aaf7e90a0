// Package llm provides the narrow text-generation collaborator used by the
// campaign agents. Agents treat generation failure as "no AI-authored text"
// and fall back to templated strings; errors never propagate past the agent
// boundary.
package llm

import (
	"context"

	"github.com/Veins19/MarketBridge/internal/types"
)

// Generator produces free-form narrative text from a system/user prompt pair.
type Generator interface {
	// Name returns the provider name (e.g., "google", "openai", "ollama").
	Name() string

	// Generate sends a completion request and returns the full response text.
	// This is a blocking call; callers bound it with the request context.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Config holds provider selection and credentials for a Generator.
type Config struct {
	// Provider selects the backing service: "google", "openai", or "ollama".
	Provider string `mapstructure:"provider" yaml:"provider"`

	// Model is the provider-specific model identifier.
	Model string `mapstructure:"model" yaml:"model"`

	// APIKey authenticates against the provider. When empty, the provider's
	// conventional environment variable is consulted instead.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`

	// ServerURL points ollama at a non-default server.
	ServerURL string `mapstructure:"server_url" yaml:"server_url"`
}

// NewGenerator constructs a Generator for the configured provider.
func NewGenerator(ctx context.Context, cfg Config) (Generator, error) {
	switch cfg.Provider {
	case "google":
		return NewGoogleGenerator(ctx, cfg)
	case "openai":
		return NewOpenAIGenerator(cfg)
	case "ollama":
		return NewOllamaGenerator(cfg)
	default:
		return nil, types.NewError(types.LLM_PROVIDER_UNKNOWN, "unknown llm provider: "+cfg.Provider)
	}
}

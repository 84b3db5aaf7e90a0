package llm

import (
	"context"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/Veins19/MarketBridge/internal/types"
)

// langchainGenerator adapts a langchaingo model to the Generator interface.
type langchainGenerator struct {
	name  string
	model llms.Model
}

var _ Generator = (*langchainGenerator)(nil)

// Name returns the provider name.
func (g *langchainGenerator) Name() string {
	return g.name
}

// Generate sends the system and user prompts as a two-message chat
// completion and returns the first choice's text.
func (g *langchainGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	resp, err := g.model.GenerateContent(ctx, messages)
	if err != nil {
		return "", types.WrapError(types.LLM_GENERATION_FAILED, g.name+" generation failed", err)
	}

	if len(resp.Choices) == 0 {
		return "", types.NewError(types.LLM_GENERATION_FAILED, g.name+" returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Content), nil
}

// NewGoogleGenerator creates a Generator backed by Google's Gemini models.
// The source system's default, matching its gemini-backed agent client.
func NewGoogleGenerator(ctx context.Context, cfg Config) (Generator, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, types.NewError(types.LLM_AUTH_FAILED, "google: missing API key")
	}

	opts := []googleai.Option{googleai.WithAPIKey(apiKey)}
	if cfg.Model != "" {
		opts = append(opts, googleai.WithDefaultModel(cfg.Model))
	}

	client, err := googleai.New(ctx, opts...)
	if err != nil {
		return nil, types.WrapError(types.LLM_AUTH_FAILED, "google: client init failed", err)
	}

	return &langchainGenerator{name: "google", model: client}, nil
}

// NewOpenAIGenerator creates a Generator backed by OpenAI chat models.
func NewOpenAIGenerator(cfg Config) (Generator, error) {
	opts := []openai.Option{}
	if cfg.APIKey != "" {
		opts = append(opts, openai.WithToken(cfg.APIKey))
	}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, types.WrapError(types.LLM_AUTH_FAILED, "openai: client init failed", err)
	}

	return &langchainGenerator{name: "openai", model: client}, nil
}

// NewOllamaGenerator creates a Generator backed by a local ollama server.
func NewOllamaGenerator(cfg Config) (Generator, error) {
	opts := []ollama.Option{}
	if cfg.Model != "" {
		opts = append(opts, ollama.WithModel(cfg.Model))
	}
	if cfg.ServerURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.ServerURL))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, types.WrapError(types.LLM_AUTH_FAILED, "ollama: client init failed", err)
	}

	return &langchainGenerator{name: "ollama", model: client}, nil
}

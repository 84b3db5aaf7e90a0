package llm

import "context"

// StaticGenerator returns a fixed response (or error) for every request.
// Used as a deterministic test double and as the offline generator when no
// provider is configured.
type StaticGenerator struct {
	Response string
	Err      error
}

var _ Generator = (*StaticGenerator)(nil)

// Name returns "static".
func (g *StaticGenerator) Name() string {
	return "static"
}

// Generate returns the configured response or error.
func (g *StaticGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if g.Err != nil {
		return "", g.Err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return g.Response, nil
}

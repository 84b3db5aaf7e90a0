package agent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Veins19/MarketBridge/internal/llm"
)

// narrate asks the language model for the reasoning text behind a
// proposal. A missing generator or a generation failure falls back to the
// deterministic template so the numeric analysis is never blocked on the
// model.
func narrate(ctx context.Context, gen llm.Generator, logger *slog.Logger, name AgentName, systemPrompt, userPrompt, fallback string) string {
	if gen == nil {
		return fallback
	}

	out, err := gen.Generate(ctx, systemPrompt, userPrompt)
	if err != nil || strings.TrimSpace(out) == "" {
		logger.Debug("narrative generation failed, using template",
			"agent", string(name),
			"error", err)
		return fallback
	}
	return strings.TrimSpace(out)
}

// bulletLines splits model output into clean bullet-free lines, capped at
// max entries.
func bulletLines(text string, max int) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• ")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == max {
			break
		}
	}
	return lines
}

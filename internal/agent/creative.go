package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veins19/MarketBridge/internal/insight"
	"github.com/Veins19/MarketBridge/internal/llm"
)

// CreativeAgent proposes the campaign concept: theme, target audience,
// channel mix and creative budget.
type CreativeAgent struct {
	gen    llm.Generator
	logger *slog.Logger
}

// NewCreativeAgent creates the creative specialist. gen may be nil; the
// agent then produces template reasoning only.
func NewCreativeAgent(gen llm.Generator, logger *slog.Logger) *CreativeAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreativeAgent{gen: gen, logger: logger.With("agent", string(AgentCreative))}
}

func (a *CreativeAgent) Name() AgentName { return AgentCreative }

func (a *CreativeAgent) Analyze(ctx context.Context, subject Subject, insights insight.SharedInsights) (Proposal, error) {
	audience := "broad consumer audience"
	budget := 12000.0

	top := insights.Customers.TopSegment()
	if top != nil && top.Name == "high_value" {
		audience = "high-value early adopters"
		budget += 3000
	}

	channels := channelMix(insights.Customers)

	p := Proposal{
		Agent:          AgentCreative,
		Theme:          fmt.Sprintf("%s: make the everyday remarkable", subject.Product),
		TargetAudience: audience,
		Channels:       channels,
		CreativeBudget: budget,
		Confidence:     Float64(0.82),
		Summary: fmt.Sprintf("Position %s for the %s across %d channels",
			subject.Product, audience, len(channels)),
	}

	p.Reasoning = narrate(ctx, a.gen, a.logger, AgentCreative,
		"You are a senior creative strategist. Explain a campaign concept in two or three sentences. Be concrete and avoid hype.",
		fmt.Sprintf("Product: %s. Query: %s. Audience: %s. Channels: %v. Creative budget: $%.0f.",
			subject.Product, subject.Query, audience, channels, budget),
		fmt.Sprintf("Targeting the %s via %v, anchored on a product-first theme with a $%.0f creative budget.",
			audience, channels, budget))

	return p, nil
}

// Negotiate aligns the creative plan with the peers: the creative budget is
// capped at 25% of the finance-approved envelope, and the channel mix is
// narrowed when stock cannot support a wide rollout.
func (a *CreativeAgent) Negotiate(ctx context.Context, subject Subject, insights insight.SharedInsights, own Proposal, peers map[AgentName]Proposal) (Proposal, error) {
	p := own
	p.Round = own.Round + 1

	var adjustments []string

	if finance, ok := peers[AgentFinance]; ok && finance.ApprovedBudget > 0 {
		limit := 0.25 * finance.ApprovedBudget
		if p.CreativeBudget > limit {
			p.CreativeBudget = limit
			adjustments = append(adjustments,
				fmt.Sprintf("creative budget capped at $%.0f (25%% of approved envelope)", limit))
		}
	}

	if inv, ok := peers[AgentInventory]; ok {
		if (inv.StockStatus == StockLimited || inv.StockStatus == StockCritical) && len(p.Channels) > 3 {
			p.Channels = p.Channels[:3]
			adjustments = append(adjustments,
				fmt.Sprintf("channel mix narrowed to %v given %s stock", p.Channels, inv.StockStatus))
		}
	}

	if len(adjustments) == 0 {
		p.Summary = "Creative plan holds after peer review"
		return p, nil
	}

	p.Confidence = Float64(p.ConfidenceOr(0.82) + 0.02)
	p.Summary = fmt.Sprintf("Creative plan revised: %s", adjustments[0])
	p.Reasoning = narrate(ctx, a.gen, a.logger, AgentCreative,
		"You are a senior creative strategist revising a plan after peer feedback. One or two sentences.",
		fmt.Sprintf("Adjustments made: %v. Product: %s.", adjustments, subject.Product),
		fmt.Sprintf("Revised after peer review: %s.", adjustments[0]))

	return p, nil
}

// channelMix builds the channel list from segment preferences, deduplicated
// in segment-value order, with a sensible default when none are known.
func channelMix(customers insight.CustomerInsight) []string {
	seen := make(map[string]bool)
	var channels []string
	for _, seg := range customers.Segments {
		for _, ch := range seg.Channels {
			if !seen[ch] {
				seen[ch] = true
				channels = append(channels, ch)
			}
		}
	}
	if len(channels) == 0 {
		channels = []string{"social", "email", "search", "display"}
	}
	return channels
}

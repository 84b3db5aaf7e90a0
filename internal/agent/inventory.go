package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veins19/MarketBridge/internal/insight"
	"github.com/Veins19/MarketBridge/internal/llm"
)

// InventoryAgent assesses whether stock can support the campaign and at
// what level of operational risk.
type InventoryAgent struct {
	gen    llm.Generator
	logger *slog.Logger
}

// NewInventoryAgent creates the inventory specialist. gen may be nil.
func NewInventoryAgent(gen llm.Generator, logger *slog.Logger) *InventoryAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &InventoryAgent{gen: gen, logger: logger.With("agent", string(AgentInventory))}
}

func (a *InventoryAgent) Name() AgentName { return AgentInventory }

func (a *InventoryAgent) Analyze(ctx context.Context, subject Subject, insights insight.SharedInsights) (Proposal, error) {
	units := insights.Product.StockQuantity
	status := stockStatusFor(units)
	demand := float64(units) * 0.8

	p := Proposal{
		Agent:          AgentInventory,
		StockStatus:    status,
		Feasibility:    feasibilityFor(status),
		AvailableUnits: units,
		ExpectedDemand: demand,
		Confidence:     Float64(0.85),
		Summary: fmt.Sprintf("%d units on hand (%s), expecting demand around %.0f units",
			units, status, demand),
	}

	p.Reasoning = narrate(ctx, a.gen, a.logger, AgentInventory,
		"You are an inventory and operations analyst. Assess campaign feasibility in two or three sentences.",
		fmt.Sprintf("Product: %s. Units on hand: %d across regions %v. Expected campaign demand: %.0f units.",
			subject.Product, units, insights.Product.StockRegions, demand),
		fmt.Sprintf("%d units across %d regions cover an expected %.0f-unit demand; status %s, %s.",
			units, len(insights.Product.StockRegions), demand, status, p.Feasibility))

	return p, nil
}

// Negotiate rechecks feasibility against the peers' plans: a broad target
// audience lifts expected demand by 20%, and a small budget envelope moves
// the assessment to a conservative footing.
func (a *InventoryAgent) Negotiate(ctx context.Context, subject Subject, insights insight.SharedInsights, own Proposal, peers map[AgentName]Proposal) (Proposal, error) {
	p := own
	p.Round = own.Round + 1

	var adjustments []string

	if creative, ok := peers[AgentCreative]; ok {
		if strings.Contains(strings.ToLower(creative.TargetAudience), "broad") {
			p.ExpectedDemand = own.ExpectedDemand * 1.2
			adjustments = append(adjustments,
				fmt.Sprintf("demand scaled to %.0f units for the broad audience", p.ExpectedDemand))
			if p.ExpectedDemand > float64(p.AvailableUnits) {
				p.Feasibility = downgradeFeasibility(p.Feasibility)
				adjustments = append(adjustments,
					fmt.Sprintf("feasibility lowered to %s, demand exceeds stock", p.Feasibility))
			}
		}
	}

	if finance, ok := peers[AgentFinance]; ok {
		if finance.ApprovedBudget > 0 && finance.ApprovedBudget < 15000 {
			if p.Feasibility == FeasibilityFeasible {
				p.Feasibility = FeasibilityWithMonitoring
			}
			p.Confidence = Float64(p.ConfidenceOr(0.85) - 0.05)
			adjustments = append(adjustments, "conservative footing on the reduced budget")
		}
	}

	if len(adjustments) == 0 {
		p.Summary = "Operational plan holds after peer review"
		return p, nil
	}

	p.Summary = fmt.Sprintf("Operational plan revised: %s", adjustments[0])
	p.Reasoning = narrate(ctx, a.gen, a.logger, AgentInventory,
		"You are an inventory and operations analyst revising an assessment after peer feedback. One or two sentences.",
		fmt.Sprintf("Adjustments: %v. Feasibility: %s. Expected demand: %.0f of %d units.",
			adjustments, p.Feasibility, p.ExpectedDemand, p.AvailableUnits),
		fmt.Sprintf("Revised after peer review: %s.", strings.Join(adjustments, "; ")))

	return p, nil
}

// stockStatusFor maps units on hand to a stock status band.
func stockStatusFor(units int) string {
	switch {
	case units >= 500:
		return StockExcellent
	case units >= 200:
		return StockGood
	case units >= 100:
		return StockAdequate
	case units >= 50:
		return StockLimited
	default:
		return StockCritical
	}
}

// feasibilityFor maps a stock status to the baseline feasibility.
func feasibilityFor(status string) string {
	switch status {
	case StockExcellent, StockGood:
		return FeasibilityFeasible
	case StockAdequate:
		return FeasibilityWithMonitoring
	case StockLimited:
		return FeasibilityWithConstraints
	default:
		return FeasibilityRestocking
	}
}

// downgradeFeasibility moves the assessment one notch more cautious.
func downgradeFeasibility(f string) string {
	switch f {
	case FeasibilityFeasible:
		return FeasibilityWithMonitoring
	case FeasibilityWithMonitoring:
		return FeasibilityWithConstraints
	default:
		return FeasibilityRestocking
	}
}

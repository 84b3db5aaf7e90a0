package agent

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/Veins19/MarketBridge/internal/insight"
	"github.com/Veins19/MarketBridge/internal/llm"
)

// FinanceAgent models the campaign economics: projected revenue, budget
// envelope, ROI and risk.
type FinanceAgent struct {
	gen    llm.Generator
	logger *slog.Logger
}

// NewFinanceAgent creates the finance specialist. gen may be nil.
func NewFinanceAgent(gen llm.Generator, logger *slog.Logger) *FinanceAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &FinanceAgent{gen: gen, logger: logger.With("agent", string(AgentFinance))}
}

func (a *FinanceAgent) Name() AgentName { return AgentFinance }

func (a *FinanceAgent) Analyze(ctx context.Context, subject Subject, insights insight.SharedInsights) (Proposal, error) {
	product := insights.Product

	revenue := product.BasePrice * float64(product.StockQuantity)
	budget := math.Max(5000, math.Floor(revenue*0.45/1000)*1000)
	roi := computeROI(revenue, product.Margin(), budget)

	risk := 0.3
	if product.Margin() >= 0.5 {
		risk = 0.15
	}
	if status := stockStatusFor(product.StockQuantity); status == StockLimited || status == StockCritical {
		risk += 0.1
	}

	p := Proposal{
		Agent:            AgentFinance,
		ROI:              roi,
		ProjectedRevenue: revenue,
		ApprovedBudget:   budget,
		RiskScore:        Float64(risk),
		RiskLevel:        riskLevelFor(risk),
		Confidence:       Float64(0.8),
		Summary: fmt.Sprintf("$%.0f projected revenue, $%.0f budget, %.1f%% ROI at %s risk",
			revenue, budget, roi, riskLevelFor(risk)),
	}

	p.Reasoning = narrate(ctx, a.gen, a.logger, AgentFinance,
		"You are a financial analyst. Explain the campaign economics in two or three sentences. Use the numbers given.",
		fmt.Sprintf("Product: %s at $%.2f (unit margin %.0f%%). Sellable stock: %d units. Projected revenue: $%.0f. Budget: $%.0f. ROI: %.1f%%.",
			product.Name, product.BasePrice, product.Margin()*100, product.StockQuantity, revenue, budget, roi),
		fmt.Sprintf("At a %.0f%% unit margin over %d sellable units, the $%.0f envelope returns %.1f%% ROI on $%.0f projected revenue.",
			product.Margin()*100, product.StockQuantity, budget, roi, revenue))

	return p, nil
}

// Negotiate tightens the envelope against operational reality: limited
// stock cuts the budget by 20%, and an oversized creative ask is flagged.
func (a *FinanceAgent) Negotiate(ctx context.Context, subject Subject, insights insight.SharedInsights, own Proposal, peers map[AgentName]Proposal) (Proposal, error) {
	p := own
	p.Round = own.Round + 1

	var adjustments []string

	if inv, ok := peers[AgentInventory]; ok {
		if inv.StockStatus == StockLimited || inv.StockStatus == StockCritical {
			p.ApprovedBudget = own.ApprovedBudget * 0.8
			p.ROI = computeROI(p.ProjectedRevenue, insights.Product.Margin(), p.ApprovedBudget)
			adjustments = append(adjustments,
				fmt.Sprintf("budget cut 20%% to $%.0f on %s stock", p.ApprovedBudget, inv.StockStatus))
		}
	}

	if creative, ok := peers[AgentCreative]; ok && p.ApprovedBudget > 0 {
		if creative.CreativeBudget > 0.25*p.ApprovedBudget {
			if p.Extra == nil {
				p.Extra = make(map[string]any)
			}
			p.Extra["budget_warning"] = fmt.Sprintf(
				"creative ask $%.0f exceeds 25%% of the $%.0f envelope",
				creative.CreativeBudget, p.ApprovedBudget)
			adjustments = append(adjustments, "flagged oversized creative ask")
		}
	}

	if len(adjustments) == 0 {
		p.Summary = "Financial plan holds after peer review"
		return p, nil
	}

	p.Summary = fmt.Sprintf("Financial plan revised: %s", adjustments[0])
	p.Reasoning = narrate(ctx, a.gen, a.logger, AgentFinance,
		"You are a financial analyst revising an envelope after peer feedback. One or two sentences.",
		fmt.Sprintf("Adjustments: %v. Revised budget: $%.0f, ROI %.1f%%.", adjustments, p.ApprovedBudget, p.ROI),
		fmt.Sprintf("Revised after peer review: %s; ROI now %.1f%%.", adjustments[0], p.ROI))

	return p, nil
}

// computeROI returns the percentage return of gross profit over the
// budget, floored at zero.
func computeROI(revenue, margin, budget float64) float64 {
	if budget <= 0 {
		return 0
	}
	return math.Max(0, (revenue*margin-budget)/budget*100)
}

func riskLevelFor(score float64) string {
	switch {
	case score < 0.25:
		return "Low"
	case score < 0.5:
		return "Medium"
	default:
		return "High"
	}
}

package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veins19/MarketBridge/internal/insight"
	"github.com/Veins19/MarketBridge/internal/llm"
)

// LeadAgent renders the executive decision from the team's final
// proposals. Scoring and the verdict are deterministic; the language model
// only contributes optional strategic insights.
type LeadAgent struct {
	gen          llm.Generator
	logger       *slog.Logger
	roiThreshold float64
}

// LeadOption configures a LeadAgent.
type LeadOption func(*LeadAgent)

// WithROIThreshold overrides the ROI anchor of the decision table.
func WithROIThreshold(threshold float64) LeadOption {
	return func(a *LeadAgent) {
		if threshold > 0 {
			a.roiThreshold = threshold
		}
	}
}

// NewLeadAgent creates the executive lead. gen may be nil; decisions are
// then rendered without AI insights.
func NewLeadAgent(gen llm.Generator, logger *slog.Logger, opts ...LeadOption) *LeadAgent {
	if logger == nil {
		logger = slog.Default()
	}
	a := &LeadAgent{
		gen:          gen,
		logger:       logger.With("agent", string(AgentLead)),
		roiThreshold: DefaultROIThreshold,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *LeadAgent) Name() AgentName { return AgentLead }

// MakeDecision scores the team proposals, applies the decision table, and
// attaches recommendations, next steps and optional AI insights.
func (a *LeadAgent) MakeDecision(ctx context.Context, subject Subject, insights insight.SharedInsights, team map[AgentName]Proposal) (Decision, error) {
	metrics := ExtractMetrics(team)
	scores := ComputeScorecard(team)
	d := Decide(scores, metrics, a.roiThreshold)

	d.Recommendations = a.recommendations(metrics, team)
	d.NextSteps = nextStepsFor(d.Label)
	d.Insights = a.aiInsights(ctx, subject, metrics, scores, d)
	d.Summary = fmt.Sprintf("%s campaign %s (%s priority), %.0f%% success probability",
		subject.Product, d.Label, d.Priority, d.SuccessProbability*100)

	a.logger.Info("executive decision rendered",
		"decision", string(d.Label),
		"priority", string(d.Priority),
		"overall_score", fmt.Sprintf("%.3f", scores.Overall),
		"roi", fmt.Sprintf("%.1f", metrics.ROI))

	return d, nil
}

// recommendations derives up to four concrete follow-ups from the metrics.
func (a *LeadAgent) recommendations(m Metrics, team map[AgentName]Proposal) []string {
	var recs []string

	if m.Feasibility != FeasibilityFeasible {
		recs = append(recs, "Track stock levels weekly during the campaign")
	}
	if m.RiskScore > 0.25 {
		recs = append(recs, "Stage the budget release against early performance")
	}
	if m.ROI < a.roiThreshold {
		recs = append(recs, "Revisit pricing or channel mix to lift projected ROI")
	}
	if creative, ok := team[AgentCreative]; ok && creative.Fallback {
		recs = append(recs, "Re-run creative analysis once the specialist is available")
	}
	recs = append(recs, "Keep creative spend within the approved budget envelope")

	if len(recs) > 4 {
		recs = recs[:4]
	}
	return recs
}

func nextStepsFor(label DecisionLabel) []string {
	switch label {
	case DecisionApproved:
		return []string{
			"Brief the channel teams on the approved plan",
			"Lock the media schedule and budget release",
			"Set the post-launch review date",
		}
	case DecisionApprovedConditional:
		return []string{
			"Define milestone checkpoints with go/no-go criteria",
			"Confirm the stock replenishment plan",
			"Re-score the campaign after the first checkpoint",
		}
	case DecisionRequiresRevision:
		return []string{
			"Rework the financial plan against the ROI target",
			"Resubmit the proposal for executive review",
		}
	default:
		return []string{
			"Archive the proposal with the rejection rationale",
			"Evaluate alternative products or campaign timing",
		}
	}
}

// aiInsights asks the model for up to five strategic observations. Any
// failure yields no insights rather than an error.
func (a *LeadAgent) aiInsights(ctx context.Context, subject Subject, m Metrics, sc Scorecard, d Decision) []string {
	if a.gen == nil {
		return nil
	}

	out, err := a.gen.Generate(ctx,
		"You are an executive strategist. Give at most five short strategic observations about a campaign decision, one per line, no preamble.",
		fmt.Sprintf("Product: %s. Decision: %s. ROI: %.1f%%. Overall score: %.2f. Risk: %.2f. Feasibility: %s. Query: %s.",
			subject.Product, d.Label, m.ROI, sc.Overall, m.RiskScore, m.Feasibility, subject.Query))
	if err != nil {
		a.logger.Debug("insight generation failed", "error", err)
		return nil
	}

	return bulletLines(out, 5)
}

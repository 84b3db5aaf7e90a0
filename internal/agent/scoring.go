package agent

import (
	"fmt"
	"math"

	"github.com/Veins19/MarketBridge/internal/types"
)

// Defaults applied when a team proposal omits a field.
const (
	defaultCreativeConfidence  = 0.7
	defaultRiskScore           = 0.2
	defaultInventoryConfidence = 0.8
	defaultFeasibility         = FeasibilityWithMonitoring
)

// DefaultROIThreshold is the ROI percentage the decision table is anchored
// on. The approval bands are expressed relative to it.
const DefaultROIThreshold = 20.0

// Scorecard holds the weighted dimension scores behind a decision, each in
// [0, 1].
type Scorecard struct {
	Financial   float64 `json:"financial"`
	Creative    float64 `json:"creative"`
	Operational float64 `json:"operational"`
	Overall     float64 `json:"overall"`
}

// Metrics are the decision inputs extracted from the team proposals, with
// the documented defaults substituted for missing fields.
type Metrics struct {
	ROI              float64
	ProjectedRevenue float64
	RiskScore        float64
	Feasibility      string
}

// ExtractMetrics pulls the decision inputs out of the team proposals.
// Figures missing from the typed fields are coerced from the Extra map,
// where model-authored proposals may carry them as strings.
func ExtractMetrics(team map[AgentName]Proposal) Metrics {
	finance := team[AgentFinance]
	inventory := team[AgentInventory]

	feasibility := inventory.Feasibility
	if feasibility == "" {
		feasibility = defaultFeasibility
	}

	roi := finance.ROI
	if roi == 0 && finance.Extra != nil {
		roi = types.AsFloat(finance.Extra["roi"])
	}
	revenue := finance.ProjectedRevenue
	if revenue == 0 && finance.Extra != nil {
		revenue = types.AsFloat(finance.Extra["projected_revenue"])
	}

	risk := defaultRiskScore
	if finance.RiskScore != nil {
		risk = *finance.RiskScore
	} else if finance.Extra != nil {
		risk = types.AsFloatOr(finance.Extra["risk_score"], defaultRiskScore)
	}

	return Metrics{
		ROI:              roi,
		ProjectedRevenue: revenue,
		RiskScore:        types.Clamp(risk, 0, 1),
		Feasibility:      feasibility,
	}
}

// ComputeScorecard scores the team proposals on the financial, creative and
// operational dimensions and blends them 40/30/30 into the overall score.
func ComputeScorecard(team map[AgentName]Proposal) Scorecard {
	m := ExtractMetrics(team)
	creative := team[AgentCreative]
	inventory := team[AgentInventory]

	financial := 0.5*math.Min(1, m.ROI/50) +
		0.3*revenueScore(m.ProjectedRevenue) +
		0.2*math.Max(0, 1-m.RiskScore)

	audienceScore := 0.5
	if creative.TargetAudience != "" {
		audienceScore = 1.0
	}
	creativeScore := 0.7*creative.ConfidenceOr(defaultCreativeConfidence) + 0.3*audienceScore

	operational := 0.4*stockScore(inventory.StockStatus) +
		0.4*feasibilityScore(m.Feasibility) +
		0.2*inventory.ConfidenceOr(defaultInventoryConfidence)

	sc := Scorecard{
		Financial:   financial,
		Creative:    creativeScore,
		Operational: operational,
	}
	sc.Overall = 0.4*sc.Financial + 0.3*sc.Creative + 0.3*sc.Operational
	return sc
}

func revenueScore(revenue float64) float64 {
	if revenue <= 0 {
		return 0.5
	}
	return math.Min(1, revenue/100000)
}

func stockScore(status string) float64 {
	switch status {
	case StockExcellent, StockGood:
		return 1.0
	default:
		return 0.7
	}
}

func feasibilityScore(feasibility string) float64 {
	switch feasibility {
	case FeasibilityFeasible:
		return 1.0
	case FeasibilityWithMonitoring:
		return 0.8
	case FeasibilityWithConstraints:
		return 0.6
	case FeasibilityRestocking:
		return 0.4
	default:
		return 0.7
	}
}

// Decide applies the decision table to the scorecard and metrics. Bands are
// evaluated top-down; the first match wins.
func Decide(sc Scorecard, m Metrics, roiThreshold float64) Decision {
	if roiThreshold <= 0 {
		roiThreshold = DefaultROIThreshold
	}

	var d Decision
	switch {
	case m.ROI >= roiThreshold+5 && sc.Overall >= 0.8 && m.RiskScore <= 0.2:
		d = Decision{
			Label:      DecisionApproved,
			Confidence: 0.90,
			Priority:   PriorityHigh,
			Rationale: fmt.Sprintf(
				"Strong business case: %.1f%% ROI with %.2f overall score and low risk. Proceed at full scale.",
				m.ROI, sc.Overall),
		}
	case m.ROI >= roiThreshold && sc.Overall >= 0.7 &&
		(m.Feasibility == FeasibilityFeasible || m.Feasibility == FeasibilityWithMonitoring):
		d = Decision{
			Label:      DecisionApproved,
			Confidence: 0.80,
			Priority:   PriorityMedium,
			Rationale: fmt.Sprintf(
				"Solid business case: %.1f%% ROI with %.2f overall score and workable operations. Proceed as planned.",
				m.ROI, sc.Overall),
		}
	case m.ROI >= roiThreshold*0.8 && sc.Overall >= 0.6:
		d = Decision{
			Label:      DecisionApprovedConditional,
			Confidence: 0.70,
			Priority:   PriorityMedium,
			Rationale: fmt.Sprintf(
				"Viable with conditions: %.1f%% ROI and %.2f overall score. Approve with milestone reviews.",
				m.ROI, sc.Overall),
		}
	case m.ROI >= roiThreshold*0.6:
		d = Decision{
			Label:      DecisionRequiresRevision,
			Confidence: 0.60,
			Priority:   PriorityLow,
			Rationale: fmt.Sprintf(
				"Marginal returns: %.1f%% ROI falls short of the %.0f%% target at %.2f overall score. Rework the plan.",
				m.ROI, roiThreshold, sc.Overall),
		}
	default:
		d = Decision{
			Label:      DecisionRejected,
			Confidence: 0.80,
			Priority:   PriorityLow,
			Rationale: fmt.Sprintf(
				"Insufficient returns: %.1f%% ROI does not clear the minimum bar at %.2f overall score.",
				m.ROI, sc.Overall),
		}
	}

	d.Scores = sc
	d.SuccessProbability = 0.6*sc.Overall + 0.4*d.Confidence
	d.Status = StatusOK
	return d
}

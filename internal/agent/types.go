// Package agent implements the campaign collaboration agents: three team
// specialists (creative, finance, inventory) that produce and renegotiate
// proposals, and a lead agent that renders the executive decision.
package agent

// AgentName identifies an agent role within a collaboration.
type AgentName string

const (
	AgentCreative  AgentName = "creative"
	AgentFinance   AgentName = "finance"
	AgentInventory AgentName = "inventory"
	AgentLead      AgentName = "lead"
)

// TeamAgents lists the specialist agents in their fixed execution order.
// The order is part of the collaboration contract: interaction logs and
// result slots follow it.
var TeamAgents = []AgentName{AgentCreative, AgentFinance, AgentInventory}

// Stock status values, best to worst.
const (
	StockExcellent = "excellent"
	StockGood      = "good"
	StockAdequate  = "adequate"
	StockLimited   = "limited"
	StockCritical  = "critical"
)

// Feasibility values for the inventory assessment.
const (
	FeasibilityFeasible        = "feasible"
	FeasibilityWithMonitoring  = "feasible_with_monitoring"
	FeasibilityWithConstraints = "feasible_with_constraints"
	FeasibilityRestocking      = "requires_restocking"
)

// DecisionLabel is the executive verdict on a campaign proposal.
type DecisionLabel string

const (
	DecisionApproved            DecisionLabel = "APPROVED"
	DecisionApprovedConditional DecisionLabel = "APPROVED_CONDITIONAL"
	DecisionRequiresRevision    DecisionLabel = "REQUIRES_REVISION"
	DecisionRejected            DecisionLabel = "REJECTED"
)

// Priority is the strategic priority attached to a decision.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Decision status values.
const (
	StatusOK       = "ok"
	StatusFallback = "fallback_mode"
)

// Subject is what a collaboration is about.
type Subject struct {
	Query   string `json:"query"`
	Product string `json:"product"`
}

// Proposal is one agent's position in a collaboration round. Only the
// fields relevant to the agent's role are populated; Extra carries any
// role-specific detail without a dedicated field.
//
// Confidence and RiskScore are pointers so that "not reported" is
// distinguishable from an explicit zero.
type Proposal struct {
	Agent   AgentName `json:"agent"`
	Round   int       `json:"round"`
	Summary string    `json:"summary,omitempty"`

	// Reasoning is the narrative behind the numbers, produced by the
	// language model when one is configured, or from a template otherwise.
	Reasoning string `json:"reasoning,omitempty"`

	// Creative.
	Theme          string   `json:"theme,omitempty"`
	TargetAudience string   `json:"target_audience,omitempty"`
	Channels       []string `json:"channels,omitempty"`
	CreativeBudget float64  `json:"creative_budget,omitempty"`

	// Finance.
	ROI              float64  `json:"roi,omitempty"`
	ProjectedRevenue float64  `json:"projected_revenue,omitempty"`
	ApprovedBudget   float64  `json:"approved_budget,omitempty"`
	RiskLevel        string   `json:"risk_level,omitempty"`
	RiskScore        *float64 `json:"risk_score,omitempty"`

	// Inventory.
	StockStatus    string  `json:"stock_status,omitempty"`
	Feasibility    string  `json:"feasibility,omitempty"`
	AvailableUnits int     `json:"available_units,omitempty"`
	ExpectedDemand float64 `json:"expected_demand,omitempty"`

	Confidence *float64       `json:"confidence,omitempty"`
	Fallback   bool           `json:"fallback,omitempty"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// HasConfidence reports whether the proposal carries a confidence value.
// An explicit zero counts; a missing value does not.
func (p Proposal) HasConfidence() bool {
	return p.Confidence != nil
}

// ConfidenceOr returns the confidence, or def when none was reported.
func (p Proposal) ConfidenceOr(def float64) float64 {
	if p.Confidence == nil {
		return def
	}
	return *p.Confidence
}

// RiskOr returns the risk score, or def when none was reported.
func (p Proposal) RiskOr(def float64) float64 {
	if p.RiskScore == nil {
		return def
	}
	return *p.RiskScore
}

// Float64 returns a pointer to v. Convenience for the optional fields.
func Float64(v float64) *float64 {
	return &v
}

// Decision is the lead agent's executive verdict.
type Decision struct {
	Label              DecisionLabel `json:"label"`
	Confidence         float64       `json:"confidence"`
	Priority           Priority      `json:"priority"`
	Rationale          string        `json:"rationale"`
	Recommendations    []string      `json:"recommendations,omitempty"`
	Insights           []string      `json:"insights,omitempty"`
	NextSteps          []string      `json:"next_steps,omitempty"`
	Summary            string        `json:"summary,omitempty"`
	SuccessProbability float64       `json:"success_probability"`
	Scores             Scorecard     `json:"scores"`
	Status             string        `json:"status"`
}

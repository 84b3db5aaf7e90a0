package agent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veins19/MarketBridge/internal/insight"
	"github.com/Veins19/MarketBridge/internal/llm"
)

var testSubject = Subject{
	Query:   "Plan a summer launch campaign",
	Product: "AuraSound X Headphones",
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func defaultInsights() insight.SharedInsights {
	return insight.Defaults("AuraSound X Headphones")
}

func TestCreativeAnalyze(t *testing.T) {
	a := NewCreativeAgent(nil, testLogger())

	p, err := a.Analyze(context.Background(), testSubject, defaultInsights())
	require.NoError(t, err)

	assert.Equal(t, AgentCreative, p.Agent)
	assert.Equal(t, "high-value early adopters", p.TargetAudience)
	assert.Equal(t, []string{"email", "social"}, p.Channels)
	assert.InDelta(t, 15000, p.CreativeBudget, 1e-9)
	assert.InDelta(t, 0.82, p.ConfidenceOr(0), 1e-9)
	assert.NotEmpty(t, p.Reasoning)
}

func TestCreativeAnalyzeUsesGeneratorNarrative(t *testing.T) {
	gen := &llm.StaticGenerator{Response: "Lean into the premium unboxing moment."}
	a := NewCreativeAgent(gen, testLogger())

	p, err := a.Analyze(context.Background(), testSubject, defaultInsights())
	require.NoError(t, err)
	assert.Equal(t, "Lean into the premium unboxing moment.", p.Reasoning)
}

func TestCreativeAnalyzeFallsBackWhenGeneratorFails(t *testing.T) {
	gen := &llm.StaticGenerator{Err: errors.New("model offline")}
	a := NewCreativeAgent(gen, testLogger())

	p, err := a.Analyze(context.Background(), testSubject, defaultInsights())
	require.NoError(t, err)
	assert.NotEmpty(t, p.Reasoning)
}

func TestCreativeNegotiateCapsBudget(t *testing.T) {
	a := NewCreativeAgent(nil, testLogger())
	own := Proposal{Agent: AgentCreative, Round: 1, CreativeBudget: 15000, Confidence: Float64(0.82)}
	peers := map[AgentName]Proposal{
		AgentFinance: {Agent: AgentFinance, ApprovedBudget: 20000},
	}

	p, err := a.Negotiate(context.Background(), testSubject, defaultInsights(), own, peers)
	require.NoError(t, err)
	assert.InDelta(t, 5000, p.CreativeBudget, 1e-9)
	assert.Equal(t, 2, p.Round)
}

func TestCreativeNegotiateNarrowsChannelsOnLimitedStock(t *testing.T) {
	a := NewCreativeAgent(nil, testLogger())
	own := Proposal{
		Agent:    AgentCreative,
		Round:    1,
		Channels: []string{"social", "email", "search", "display"},
	}
	peers := map[AgentName]Proposal{
		AgentInventory: {Agent: AgentInventory, StockStatus: StockLimited},
	}

	p, err := a.Negotiate(context.Background(), testSubject, defaultInsights(), own, peers)
	require.NoError(t, err)
	assert.Equal(t, []string{"social", "email", "search"}, p.Channels)
}

func TestCreativeNegotiateNoChangeHolds(t *testing.T) {
	a := NewCreativeAgent(nil, testLogger())
	own := Proposal{Agent: AgentCreative, Round: 1, CreativeBudget: 4000, Channels: []string{"email"}}
	peers := map[AgentName]Proposal{
		AgentFinance:   {ApprovedBudget: 20000},
		AgentInventory: {StockStatus: StockGood},
	}

	p, err := a.Negotiate(context.Background(), testSubject, defaultInsights(), own, peers)
	require.NoError(t, err)
	assert.InDelta(t, 4000, p.CreativeBudget, 1e-9)
	assert.Contains(t, p.Summary, "holds")
}

func TestFinanceAnalyze(t *testing.T) {
	a := NewFinanceAgent(nil, testLogger())

	p, err := a.Analyze(context.Background(), testSubject, defaultInsights())
	require.NoError(t, err)

	assert.Equal(t, AgentFinance, p.Agent)
	// 150 units at $299.99.
	assert.InDelta(t, 44998.5, p.ProjectedRevenue, 0.01)
	assert.InDelta(t, 20000, p.ApprovedBudget, 1e-9)
	assert.InDelta(t, 34.99, p.ROI, 0.05)
	assert.Equal(t, "Low", p.RiskLevel)
	require.NotNil(t, p.RiskScore)
	assert.InDelta(t, 0.15, *p.RiskScore, 1e-9)
	assert.InDelta(t, 0.8, p.ConfidenceOr(0), 1e-9)
}

func TestFinanceNegotiateCutsBudgetOnLimitedStock(t *testing.T) {
	a := NewFinanceAgent(nil, testLogger())
	own := Proposal{
		Agent:            AgentFinance,
		Round:            1,
		ProjectedRevenue: 44998.5,
		ApprovedBudget:   20000,
		ROI:              35,
	}
	peers := map[AgentName]Proposal{
		AgentInventory: {Agent: AgentInventory, StockStatus: StockLimited},
	}

	p, err := a.Negotiate(context.Background(), testSubject, defaultInsights(), own, peers)
	require.NoError(t, err)
	assert.InDelta(t, 16000, p.ApprovedBudget, 1e-9)
	assert.Greater(t, p.ROI, own.ROI)
}

func TestFinanceNegotiateFlagsOversizedCreativeAsk(t *testing.T) {
	a := NewFinanceAgent(nil, testLogger())
	own := Proposal{Agent: AgentFinance, Round: 1, ApprovedBudget: 20000}
	peers := map[AgentName]Proposal{
		AgentCreative: {Agent: AgentCreative, CreativeBudget: 6000},
	}

	p, err := a.Negotiate(context.Background(), testSubject, defaultInsights(), own, peers)
	require.NoError(t, err)
	require.NotNil(t, p.Extra)
	assert.Contains(t, p.Extra, "budget_warning")
}

func TestInventoryAnalyze(t *testing.T) {
	a := NewInventoryAgent(nil, testLogger())

	p, err := a.Analyze(context.Background(), testSubject, defaultInsights())
	require.NoError(t, err)

	assert.Equal(t, StockAdequate, p.StockStatus)
	assert.Equal(t, FeasibilityWithMonitoring, p.Feasibility)
	assert.Equal(t, 150, p.AvailableUnits)
	assert.InDelta(t, 120, p.ExpectedDemand, 1e-9)
	assert.InDelta(t, 0.85, p.ConfidenceOr(0), 1e-9)
}

func TestInventoryNegotiateScalesDemandForBroadAudience(t *testing.T) {
	a := NewInventoryAgent(nil, testLogger())
	own := Proposal{
		Agent:          AgentInventory,
		Round:          1,
		StockStatus:    StockAdequate,
		Feasibility:    FeasibilityWithMonitoring,
		AvailableUnits: 150,
		ExpectedDemand: 120,
	}
	peers := map[AgentName]Proposal{
		AgentCreative: {Agent: AgentCreative, TargetAudience: "broad consumer audience"},
	}

	p, err := a.Negotiate(context.Background(), testSubject, defaultInsights(), own, peers)
	require.NoError(t, err)
	assert.InDelta(t, 144, p.ExpectedDemand, 1e-9)
	// Demand still inside stock, feasibility unchanged.
	assert.Equal(t, FeasibilityWithMonitoring, p.Feasibility)
}

func TestInventoryNegotiateDowngradesWhenDemandExceedsStock(t *testing.T) {
	a := NewInventoryAgent(nil, testLogger())
	own := Proposal{
		Agent:          AgentInventory,
		Round:          1,
		Feasibility:    FeasibilityWithMonitoring,
		AvailableUnits: 150,
		ExpectedDemand: 140,
	}
	peers := map[AgentName]Proposal{
		AgentCreative: {TargetAudience: "broad consumer audience"},
	}

	p, err := a.Negotiate(context.Background(), testSubject, defaultInsights(), own, peers)
	require.NoError(t, err)
	assert.InDelta(t, 168, p.ExpectedDemand, 1e-9)
	assert.Equal(t, FeasibilityWithConstraints, p.Feasibility)
}

func TestInventoryNegotiateConservativeOnSmallBudget(t *testing.T) {
	a := NewInventoryAgent(nil, testLogger())
	own := Proposal{
		Agent:       AgentInventory,
		Round:       1,
		Feasibility: FeasibilityFeasible,
		Confidence:  Float64(0.85),
	}
	peers := map[AgentName]Proposal{
		AgentFinance: {ApprovedBudget: 14000},
	}

	p, err := a.Negotiate(context.Background(), testSubject, defaultInsights(), own, peers)
	require.NoError(t, err)
	assert.Equal(t, FeasibilityWithMonitoring, p.Feasibility)
	assert.InDelta(t, 0.80, p.ConfidenceOr(0), 1e-9)
}

func TestStockStatusBands(t *testing.T) {
	assert.Equal(t, StockExcellent, stockStatusFor(500))
	assert.Equal(t, StockGood, stockStatusFor(200))
	assert.Equal(t, StockAdequate, stockStatusFor(150))
	assert.Equal(t, StockLimited, stockStatusFor(50))
	assert.Equal(t, StockCritical, stockStatusFor(10))
}

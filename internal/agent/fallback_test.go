package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackForIsTotalOverAllAgents(t *testing.T) {
	for _, name := range append(TeamAgents, AgentLead, AgentName("unknown")) {
		p := FallbackFor(name, 2)
		assert.Equal(t, name, p.Agent)
		assert.Equal(t, 2, p.Round)
		assert.True(t, p.Fallback)
		require.True(t, p.HasConfidence(), "fallback for %s must report confidence", name)
	}
}

func TestFallbackLiterals(t *testing.T) {
	creative := FallbackFor(AgentCreative, 1)
	assert.InDelta(t, 0.6, creative.ConfidenceOr(0), 1e-9)
	assert.NotEmpty(t, creative.TargetAudience)

	finance := FallbackFor(AgentFinance, 1)
	assert.InDelta(t, 22.0, finance.ROI, 1e-9)
	assert.InDelta(t, 45000, finance.ProjectedRevenue, 1e-9)
	assert.InDelta(t, 20000, finance.ApprovedBudget, 1e-9)
	assert.Equal(t, "Medium", finance.RiskLevel)
	assert.InDelta(t, 0.6, finance.ConfidenceOr(0), 1e-9)

	inventory := FallbackFor(AgentInventory, 1)
	assert.Equal(t, StockAdequate, inventory.StockStatus)
	assert.Equal(t, FeasibilityWithMonitoring, inventory.Feasibility)
	assert.Equal(t, 150, inventory.AvailableUnits)
	assert.InDelta(t, 0.6, inventory.ConfidenceOr(0), 1e-9)
}

func TestFallbackDecisionOverAllFallbackTeam(t *testing.T) {
	team := map[AgentName]Proposal{
		AgentCreative:  FallbackFor(AgentCreative, 1),
		AgentFinance:   FallbackFor(AgentFinance, 1),
		AgentInventory: FallbackFor(AgentInventory, 1),
	}

	d := FallbackDecision(team)

	// Conservative fallback figures land on a conditional approval, not a
	// full one.
	assert.Equal(t, DecisionApprovedConditional, d.Label)
	assert.Equal(t, PriorityMedium, d.Priority)
	assert.InDelta(t, 0.70, d.Confidence, 1e-9)
	assert.Equal(t, StatusFallback, d.Status)
	assert.InDelta(t, 0.638, d.Scores.Overall, 1e-6)
	assert.NotEmpty(t, d.Recommendations)
}

package agent

// FallbackFor returns the deterministic stand-in proposal used when an
// agent fails or times out. The figures are deliberately conservative so
// that an all-fallback run lands on a conditional approval rather than an
// unearned full approval. Total over every agent name.
func FallbackFor(name AgentName, round int) Proposal {
	switch name {
	case AgentCreative:
		return Proposal{
			Agent:          AgentCreative,
			Round:          round,
			Summary:        "Standard multi-channel campaign concept",
			Theme:          "Seasonal product spotlight",
			TargetAudience: "broad consumer audience",
			Channels:       []string{"email", "social", "search"},
			CreativeBudget: 10000,
			Confidence:     Float64(0.6),
			Fallback:       true,
		}
	case AgentFinance:
		return Proposal{
			Agent:            AgentFinance,
			Round:            round,
			Summary:          "Conservative budget envelope pending full analysis",
			ROI:              22.0,
			ProjectedRevenue: 45000,
			ApprovedBudget:   20000,
			RiskLevel:        "Medium",
			Confidence:       Float64(0.6),
			Fallback:         true,
		}
	case AgentInventory:
		return Proposal{
			Agent:          AgentInventory,
			Round:          round,
			Summary:        "Stock assumed adequate, monitor during rollout",
			StockStatus:    StockAdequate,
			Feasibility:    FeasibilityWithMonitoring,
			AvailableUnits: 150,
			Confidence:     Float64(0.6),
			Fallback:       true,
		}
	default:
		return Proposal{
			Agent:      name,
			Round:      round,
			Summary:    "No analysis available",
			Confidence: Float64(0.6),
			Fallback:   true,
		}
	}
}

// FallbackDecision renders a decision when the lead agent itself fails.
// It reuses the scoring path over whatever team proposals exist, so the
// verdict stays consistent with the decision table.
func FallbackDecision(team map[AgentName]Proposal) Decision {
	d := Decide(ComputeScorecard(team), ExtractMetrics(team), DefaultROIThreshold)
	d.Status = StatusFallback
	d.Recommendations = append(d.Recommendations,
		"Re-run the analysis once the executive agent is available")
	return d
}

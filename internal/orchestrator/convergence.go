package orchestrator

import "github.com/Veins19/MarketBridge/internal/agent"

// Converged reports whether the team has reached a workable consensus:
// every specialist has a proposal on the table that states a confidence.
// The value of the confidence is irrelevant, only its presence counts; an
// explicit zero still converges, a missing field never does.
func Converged(team map[agent.AgentName]agent.Proposal) bool {
	for _, name := range agent.TeamAgents {
		p, ok := team[name]
		if !ok || !p.HasConfidence() {
			return false
		}
	}
	return true
}

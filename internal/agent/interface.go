package agent

import (
	"context"

	"github.com/Veins19/MarketBridge/internal/insight"
)

// Agent is a team specialist participating in a collaboration.
type Agent interface {
	// Name returns the agent's role name.
	Name() AgentName

	// Analyze produces the agent's independent proposal. It runs before
	// the agent has seen any peer positions.
	Analyze(ctx context.Context, subject Subject, insights insight.SharedInsights) (Proposal, error)

	// Negotiate revises the agent's own proposal after reviewing the
	// peers' positions from the previous round. peers holds a snapshot
	// keyed by agent name; own is the agent's current proposal.
	Negotiate(ctx context.Context, subject Subject, insights insight.SharedInsights, own Proposal, peers map[AgentName]Proposal) (Proposal, error)
}

// Lead renders the executive decision from the team's final positions.
type Lead interface {
	// Name returns the lead agent's role name.
	Name() AgentName

	// MakeDecision scores the team proposals and renders a verdict.
	MakeDecision(ctx context.Context, subject Subject, insights insight.SharedInsights, team map[AgentName]Proposal) (Decision, error)
}

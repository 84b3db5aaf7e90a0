// Package orchestrator runs a campaign collaboration end to end: context
// load, independent analysis, negotiation and the executive decision,
// compiled into a single result. A run degrades through fallbacks instead
// of failing; Run never returns an error.
package orchestrator

import (
	"fmt"
	"sync"
	"time"

	"github.com/Veins19/MarketBridge/internal/agent"
	"github.com/Veins19/MarketBridge/internal/insight"
	"github.com/Veins19/MarketBridge/internal/types"
)

// Phase names, in execution order.
const (
	PhaseContextLoad         = "context_load"
	PhaseIndependentAnalysis = "independent_analysis"
	PhaseNegotiation         = "negotiation"
	PhaseExecutiveDecision   = "executive_decision"
	PhaseCompile             = "compile"
)

// Interaction is one logged agent contribution.
type Interaction struct {
	Agent     agent.AgentName `json:"agent"`
	Phase     string          `json:"phase"`
	Round     int             `json:"round"`
	Summary   string          `json:"summary"`
	Fallback  bool            `json:"fallback,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// CollaborationContext is the shared mutable state of one campaign run.
// All access goes through the mutex; agents only ever see snapshots.
type CollaborationContext struct {
	mu sync.RWMutex

	id       string
	subject  agent.Subject
	insights insight.SharedInsights
	started  time.Time

	team     map[agent.AgentName]agent.Proposal
	decision *agent.Decision
	log      []Interaction
	round    int
}

// NewCollaborationContext creates the context for a run, assigning the
// campaign identifier.
func NewCollaborationContext(subject agent.Subject, insights insight.SharedInsights) *CollaborationContext {
	return &CollaborationContext{
		id:       types.NewAnalysisID("analysis"),
		subject:  subject,
		insights: insights,
		started:  time.Now(),
		team:     make(map[agent.AgentName]agent.Proposal),
	}
}

// ID returns the campaign identifier.
func (c *CollaborationContext) ID() string {
	return c.id
}

// Subject returns what the collaboration is about.
func (c *CollaborationContext) Subject() agent.Subject {
	return c.subject
}

// Insights returns the shared business context.
func (c *CollaborationContext) Insights() insight.SharedInsights {
	return c.insights
}

// UpdateProposal stores an agent's proposal and logs the interaction.
func (c *CollaborationContext) UpdateProposal(phase string, p agent.Proposal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.team[p.Agent] = p
	c.log = append(c.log, Interaction{
		Agent:     p.Agent,
		Phase:     phase,
		Round:     p.Round,
		Summary:   p.Summary,
		Fallback:  p.Fallback,
		Timestamp: time.Now(),
	})
}

// TeamSnapshot returns a copy of the current team proposals. Mutating the
// copy does not affect the context.
func (c *CollaborationContext) TeamSnapshot() map[agent.AgentName]agent.Proposal {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make(map[agent.AgentName]agent.Proposal, len(c.team))
	for name, p := range c.team {
		snapshot[name] = p
	}
	return snapshot
}

// SetDecision records the executive decision. The decision is written once;
// a second call is rejected.
func (c *CollaborationContext) SetDecision(d agent.Decision) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.decision != nil {
		return fmt.Errorf("decision already set for %s", c.id)
	}
	c.decision = &d
	c.log = append(c.log, Interaction{
		Agent:     agent.AgentLead,
		Phase:     PhaseExecutiveDecision,
		Round:     c.round,
		Summary:   string(d.Label),
		Fallback:  d.Status == agent.StatusFallback,
		Timestamp: time.Now(),
	})
	return nil
}

// Decision returns the executive decision, or nil before it is set.
func (c *CollaborationContext) Decision() *agent.Decision {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.decision == nil {
		return nil
	}
	d := *c.decision
	return &d
}

// SetRound advances the negotiation round counter. Round 0 is the
// independent analysis; rounds 1..maxRounds are negotiation.
func (c *CollaborationContext) SetRound(round int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.round = round
}

// Round returns the current round number.
func (c *CollaborationContext) Round() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.round
}

// Interactions returns a copy of the append-only interaction log.
func (c *CollaborationContext) Interactions() []Interaction {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Interaction, len(c.log))
	copy(out, c.log)
	return out
}

// InteractionCount returns the number of logged interactions.
func (c *CollaborationContext) InteractionCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.log)
}

// StartedAt returns when the run began.
func (c *CollaborationContext) StartedAt() time.Time {
	return c.started
}

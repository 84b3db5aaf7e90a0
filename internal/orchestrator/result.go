package orchestrator

import (
	"time"

	"github.com/Veins19/MarketBridge/internal/agent"
	"github.com/Veins19/MarketBridge/internal/insight"
)

// CollaborationMode identifies how the result was produced.
const CollaborationMode = "multi_agent_negotiation"

// interactionLogTail caps how much of the interaction log a result carries.
const interactionLogTail = 10

// Result is the complete outcome of a campaign collaboration run. It is
// always fully populated; degraded runs carry fallback proposals and a
// fallback agent status instead of gaps.
type Result struct {
	CollaborationID string `json:"collaboration_id"`
	Query           string `json:"query"`
	Product         string `json:"product"`
	Mode            string `json:"collaboration_mode"`

	Decision agent.Decision                     `json:"decision"`
	Team     map[agent.AgentName]agent.Proposal `json:"team"`

	Rounds       int  `json:"rounds"`
	Interactions int  `json:"interactions"`
	Consensus    bool `json:"consensus"`
	Degraded     bool `json:"degraded"`

	// AgentStatus records, per team agent, whether its final proposal is
	// its own work ("ok") or a stand-in ("fallback_mode").
	AgentStatus    map[agent.AgentName]string `json:"agent_status"`
	FallbackAgents []agent.AgentName          `json:"fallback_agents,omitempty"`

	// InteractionLog carries the tail of the interaction log.
	InteractionLog []Interaction `json:"interaction_log,omitempty"`

	InsightSource string        `json:"insight_source"`
	StartedAt     time.Time     `json:"started_at"`
	Duration      time.Duration `json:"duration"`
}

// compile assembles the final result from the collaboration context. All
// four proposal slots are populated: the three specialists plus the lead,
// whose slot reflects the decision it rendered.
func compile(cc *CollaborationContext, decision agent.Decision, insights insight.SharedInsights) Result {
	team := cc.TeamSnapshot()

	status := make(map[agent.AgentName]string, len(agent.TeamAgents)+1)
	var fallbacks []agent.AgentName
	for _, name := range agent.TeamAgents {
		p, ok := team[name]
		if !ok {
			// Every slot is filled before compile runs; a missing one is
			// substituted here as a last line of defense.
			p = agent.FallbackFor(name, cc.Round())
			team[name] = p
		}
		if p.Fallback {
			status[name] = agent.StatusFallback
			fallbacks = append(fallbacks, name)
		} else {
			status[name] = agent.StatusOK
		}
	}

	leadFallback := decision.Status == agent.StatusFallback
	team[agent.AgentLead] = agent.Proposal{
		Agent:      agent.AgentLead,
		Round:      cc.Round(),
		Summary:    string(decision.Label),
		Reasoning:  decision.Rationale,
		Confidence: agent.Float64(decision.Confidence),
		Fallback:   leadFallback,
	}
	if leadFallback {
		status[agent.AgentLead] = agent.StatusFallback
		fallbacks = append(fallbacks, agent.AgentLead)
	} else {
		status[agent.AgentLead] = agent.StatusOK
	}

	log := cc.Interactions()
	if len(log) > interactionLogTail {
		log = log[len(log)-interactionLogTail:]
	}

	return Result{
		CollaborationID: cc.ID(),
		Query:           cc.Subject().Query,
		Product:         cc.Subject().Product,
		Mode:            CollaborationMode,
		Decision:        decision,
		Team:            team,
		Rounds:          cc.Round(),
		Interactions:    cc.InteractionCount(),
		Consensus:       Converged(team),
		Degraded:        len(fallbacks) > 0 || decision.Status == agent.StatusFallback,
		AgentStatus:     status,
		FallbackAgents:  fallbacks,
		InteractionLog:  log,
		InsightSource:   insights.Source,
		StartedAt:       cc.StartedAt(),
		Duration:        time.Since(cc.StartedAt()),
	}
}

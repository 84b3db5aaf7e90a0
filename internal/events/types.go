package events

import (
	"time"
)

// EventType identifies the category and nature of an event emitted by the
// collaboration engine.
type EventType string

// Campaign lifecycle events.
// These events track the overall collaboration run.
const (
	EventCampaignStarted   EventType = "campaign.started"
	EventCampaignCompleted EventType = "campaign.completed"
	EventCampaignDegraded  EventType = "campaign.degraded"
)

// Phase events.
// One started/completed pair per orchestration phase.
const (
	EventPhaseStarted   EventType = "phase.started"
	EventPhaseCompleted EventType = "phase.completed"
)

// Agent events.
// These events track individual agent analysis and negotiation calls.
const (
	EventAgentStarted   EventType = "agent.started"
	EventAgentCompleted EventType = "agent.completed"
	EventAgentFailed    EventType = "agent.failed"
	EventAgentFallback  EventType = "agent.fallback"
)

// Negotiation events.
const (
	EventRoundStarted   EventType = "negotiation.round.started"
	EventRoundCompleted EventType = "negotiation.round.completed"
	EventConverged      EventType = "negotiation.converged"
)

// Decision and persistence events.
const (
	EventDecisionRendered  EventType = "decision.rendered"
	EventPersistenceSaved  EventType = "persistence.saved"
	EventPersistenceFailed EventType = "persistence.failed"
)

// String returns the string representation of the event type.
func (t EventType) String() string {
	return string(t)
}

// Event represents a single observability event in the collaboration engine.
// Events are advisory: they never influence orchestration control flow and
// may be dropped for slow subscribers.
type Event struct {
	// Type identifies the category and nature of the event
	Type EventType `json:"type"`

	// Timestamp records when the event occurred
	Timestamp time.Time `json:"timestamp"`

	// CampaignID associates the event with a collaboration run
	CampaignID string `json:"campaign_id,omitempty"`

	// AgentName identifies which agent the event concerns (empty for
	// phase-level and campaign-level events)
	AgentName string `json:"agent_name,omitempty"`

	// Phase names the orchestration phase active when the event fired
	Phase string `json:"phase,omitempty"`

	// Round is the negotiation round the event belongs to (0 outside Phase 2)
	Round int `json:"round,omitempty"`

	// Payload contains event-specific data
	Payload any `json:"payload,omitempty"`

	// Attrs contains additional key-value attributes
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Filter defines criteria for filtering events in subscriptions.
// All filter fields use AND logic; empty fields act as wildcards.
type Filter struct {
	// Types filters by event types (empty = all types)
	Types []EventType `json:"types,omitempty"`

	// CampaignID filters by collaboration run (empty = all runs)
	CampaignID string `json:"campaign_id,omitempty"`

	// AgentName filters by agent (empty = all agents)
	AgentName string `json:"agent_name,omitempty"`
}

// Matches determines if the given event matches this filter's criteria.
func (f *Filter) Matches(event Event) bool {
	if len(f.Types) > 0 {
		matched := false
		for _, t := range f.Types {
			if event.Type == t {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if f.CampaignID != "" && event.CampaignID != f.CampaignID {
		return false
	}

	if f.AgentName != "" && event.AgentName != f.AgentName {
		return false
	}

	return true
}

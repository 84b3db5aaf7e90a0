package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/Veins19/MarketBridge/internal/agent"
	"github.com/Veins19/MarketBridge/internal/events"
	"github.com/Veins19/MarketBridge/internal/insight"
)

// Defaults for the engine configuration.
const (
	DefaultMaxRounds = 2
	DefaultTimeout   = 30 * time.Second

	// persistTimeout bounds the fire-and-forget save after a run.
	persistTimeout = 10 * time.Second
)

// Engine orchestrates one campaign collaboration per Run call. It is safe
// for concurrent use; each run gets its own CollaborationContext.
type Engine struct {
	team   []agent.Agent
	lead   agent.Lead
	loader insight.Loader

	maxRounds int
	timeout   time.Duration
	logger    *slog.Logger
	tracer    trace.Tracer
	bus       events.EventBus
	sink      PersistenceSink
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxRounds sets how many collaboration rounds a run may use,
// including the independent analysis round.
func WithMaxRounds(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxRounds = n
		}
	}
}

// WithTimeout bounds the whole run. Past the deadline, remaining agents
// are substituted with fallbacks rather than waited on.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTracer sets the tracer used for per-phase spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		if tracer != nil {
			e.tracer = tracer
		}
	}
}

// WithEventBus attaches the observability event bus.
func WithEventBus(bus events.EventBus) Option {
	return func(e *Engine) {
		e.bus = bus
	}
}

// WithPersistence attaches the sink that stores results after each run.
func WithPersistence(sink PersistenceSink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

// NewEngine creates an orchestration engine over the given team and lead.
// The team runs in the order given; by convention that is agent.TeamAgents
// order.
func NewEngine(team []agent.Agent, lead agent.Lead, loader insight.Loader, opts ...Option) *Engine {
	e := &Engine{
		team:      team,
		lead:      lead,
		loader:    loader,
		maxRounds: DefaultMaxRounds,
		timeout:   DefaultTimeout,
		logger:    slog.Default(),
		tracer:    noop.NewTracerProvider().Tracer("orchestrator"),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "orchestrator")
	return e
}

// Run executes a full collaboration for the query and product. It never
// returns an error: every failure mode degrades into fallback proposals or
// a fallback decision, and the result records what happened.
func (e *Engine) Run(ctx context.Context, query, product string) (result Result) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	subject := agent.Subject{Query: query, Product: product}

	// The engine must produce a result even if something below panics.
	var cc *CollaborationContext
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("collaboration panicked", "panic", fmt.Sprint(r))
			result = e.panicResult(cc, subject)
		}
	}()

	insights := e.loadContext(ctx, subject)
	cc = NewCollaborationContext(subject, insights)

	logger := e.logger.With("collaboration_id", cc.ID())
	logger.Info("collaboration started", "query", query, "product", product)
	e.publish(ctx, events.Event{
		Type:       events.EventCampaignStarted,
		CampaignID: cc.ID(),
		Attrs:      map[string]any{"query": query, "product": product},
	})

	e.runAnalysis(ctx, cc, logger)
	e.runNegotiation(ctx, cc, logger)
	decision := e.runDecision(ctx, cc, logger)

	ctx, span := e.tracer.Start(ctx, PhaseCompile)
	result = compile(cc, decision, insights)
	span.End()

	completed := events.EventCampaignCompleted
	if result.Degraded {
		completed = events.EventCampaignDegraded
	}
	e.publish(ctx, events.Event{
		Type:       completed,
		CampaignID: cc.ID(),
		Attrs: map[string]any{
			"decision":  string(decision.Label),
			"consensus": result.Consensus,
			"rounds":    result.Rounds,
		},
	})
	logger.Info("collaboration finished",
		"decision", string(decision.Label),
		"rounds", result.Rounds,
		"degraded", result.Degraded,
		"duration", result.Duration)

	e.persistAsync(result)
	return result
}

// loadContext runs the context-load phase. The loader is fail-soft, and a
// misbehaving loader degrades to the static defaults here.
func (e *Engine) loadContext(ctx context.Context, subject agent.Subject) insight.SharedInsights {
	ctx, span := e.tracer.Start(ctx, PhaseContextLoad)
	defer span.End()

	if e.loader == nil {
		return insight.Defaults(subject.Product)
	}
	insights, err := e.loader.Load(ctx, subject.Product)
	if err != nil {
		e.logger.Warn("context load failed, using defaults", "error", err)
		return insight.Defaults(subject.Product)
	}
	return insights
}

// teamResult carries one agent's contribution through the fan-in channel.
type teamResult struct {
	name     agent.AgentName
	proposal agent.Proposal
	ok       bool
}

// collectTeam fans fn out over the team and gathers the results, giving
// up when the context deadline passes. Agents still outstanding at the
// deadline are returned in missing; their goroutines are abandoned and
// any late result is discarded (the buffered channel keeps the straggler
// send from blocking).
func (e *Engine) collectTeam(ctx context.Context, fn func(agent.Agent) (agent.Proposal, bool)) (map[agent.AgentName]agent.Proposal, []agent.AgentName) {
	results := make(chan teamResult, len(e.team))
	var g errgroup.Group
	for _, a := range e.team {
		g.Go(func() error {
			p, ok := fn(a)
			results <- teamResult{name: a.Name(), proposal: p, ok: ok}
			return nil
		})
	}
	go func() {
		g.Wait() //nolint:errcheck // the closures never return errors
		close(results)
	}()

	collected := make(map[agent.AgentName]agent.Proposal, len(e.team))
	returned := make(map[agent.AgentName]bool, len(e.team))
	for pending := len(e.team); pending > 0; pending-- {
		select {
		case r := <-results:
			returned[r.name] = true
			if r.ok {
				collected[r.name] = r.proposal
			}
		case <-ctx.Done():
			var missing []agent.AgentName
			for _, a := range e.team {
				if !returned[a.Name()] {
					missing = append(missing, a.Name())
				}
			}
			return collected, missing
		}
	}
	return collected, nil
}

// runAnalysis fans the team out concurrently for their independent
// proposals, then records them in the fixed team order. An agent that
// errors, panics or outlives the run deadline is replaced by its
// fallback.
func (e *Engine) runAnalysis(ctx context.Context, cc *CollaborationContext, logger *slog.Logger) {
	ctx, span := e.tracer.Start(ctx, PhaseIndependentAnalysis,
		trace.WithAttributes(attribute.String("collaboration_id", cc.ID())))
	defer span.End()

	e.publishPhase(ctx, cc, events.EventPhaseStarted, PhaseIndependentAnalysis, 0)

	proposals, missing := e.collectTeam(ctx, func(a agent.Agent) (p agent.Proposal, ok bool) {
		name := a.Name()
		// A panicking agent must not take down the run; it gets the
		// fallback like any other failure.
		defer func() {
			if r := recover(); r != nil {
				logger.Warn("agent analysis panicked, substituting fallback",
					"agent", string(name), "panic", fmt.Sprint(r))
				e.publishAgent(ctx, cc, events.EventAgentFallback, name, PhaseIndependentAnalysis, 0)
				p, ok = agent.FallbackFor(name, 0), true
			}
		}()

		e.publishAgent(ctx, cc, events.EventAgentStarted, name, PhaseIndependentAnalysis, 0)
		res, err := a.Analyze(ctx, cc.Subject(), cc.Insights())
		if err != nil {
			logger.Warn("agent analysis failed, substituting fallback",
				"agent", string(name), "error", err)
			e.publishAgent(ctx, cc, events.EventAgentFailed, name, PhaseIndependentAnalysis, 0)
			e.publishAgent(ctx, cc, events.EventAgentFallback, name, PhaseIndependentAnalysis, 0)
			return agent.FallbackFor(name, 0), true
		}
		e.publishAgent(ctx, cc, events.EventAgentCompleted, name, PhaseIndependentAnalysis, 0)
		return res, true
	})

	for _, name := range missing {
		logger.Warn("agent analysis missed the run deadline, substituting fallback",
			"agent", string(name))
		e.publishAgent(ctx, cc, events.EventAgentFallback, name, PhaseIndependentAnalysis, 0)
		proposals[name] = agent.FallbackFor(name, 0)
	}

	// Record in fixed order so the interaction log is deterministic.
	for _, a := range e.team {
		if p, ok := proposals[a.Name()]; ok {
			p.Round = 0
			cc.UpdateProposal(PhaseIndependentAnalysis, p)
		}
	}

	e.publishPhase(ctx, cc, events.EventPhaseCompleted, PhaseIndependentAnalysis, 0)
}

// runNegotiation runs revision rounds until the team converges, the round
// budget is spent or the run deadline passes. Round one always runs;
// convergence only cuts the remaining rounds short. Within a round the
// negotiations run concurrently against the same snapshot taken at the
// round start; revisions are committed after the fan-in and only become
// visible to peers in the next round.
func (e *Engine) runNegotiation(ctx context.Context, cc *CollaborationContext, logger *slog.Logger) {
	ctx, span := e.tracer.Start(ctx, PhaseNegotiation,
		trace.WithAttributes(attribute.String("collaboration_id", cc.ID())))
	defer span.End()

	for round := 1; round <= e.maxRounds; round++ {
		if ctx.Err() != nil {
			logger.Warn("negotiation skipped, run deadline passed", "round", round)
			return
		}

		cc.SetRound(round)
		e.publishPhase(ctx, cc, events.EventRoundStarted, PhaseNegotiation, round)

		snapshot := cc.TeamSnapshot()
		revisions, missing := e.collectTeam(ctx, func(a agent.Agent) (p agent.Proposal, ok bool) {
			name := a.Name()
			// Failure here degrades to "no refinement": the prior
			// proposal stays in place untouched.
			defer func() {
				if r := recover(); r != nil {
					logger.Warn("agent negotiation panicked, keeping prior position",
						"agent", string(name), "round", round, "panic", fmt.Sprint(r))
					e.publishAgent(ctx, cc, events.EventAgentFailed, name, PhaseNegotiation, round)
					ok = false
				}
			}()

			own, found := snapshot[name]
			if !found {
				own = agent.FallbackFor(name, round-1)
			}
			peers := make(map[agent.AgentName]agent.Proposal, len(snapshot)-1)
			for peer, pp := range snapshot {
				if peer != name {
					peers[peer] = pp
				}
			}

			e.publishAgent(ctx, cc, events.EventAgentStarted, name, PhaseNegotiation, round)
			revised, err := a.Negotiate(ctx, cc.Subject(), cc.Insights(), own, peers)
			if err != nil {
				logger.Warn("agent negotiation failed, keeping prior position",
					"agent", string(name), "round", round, "error", err)
				e.publishAgent(ctx, cc, events.EventAgentFailed, name, PhaseNegotiation, round)
				return agent.Proposal{}, false
			}
			e.publishAgent(ctx, cc, events.EventAgentCompleted, name, PhaseNegotiation, round)
			return revised, true
		})

		for _, name := range missing {
			logger.Warn("agent negotiation missed the run deadline, keeping prior position",
				"agent", string(name), "round", round)
			e.publishAgent(ctx, cc, events.EventAgentFailed, name, PhaseNegotiation, round)
		}

		// Commit after the fan-in, in fixed order.
		for _, a := range e.team {
			if revised, ok := revisions[a.Name()]; ok {
				revised.Round = round
				cc.UpdateProposal(PhaseNegotiation, revised)
			}
		}

		e.publishPhase(ctx, cc, events.EventRoundCompleted, PhaseNegotiation, round)

		if Converged(cc.TeamSnapshot()) {
			logger.Info("team converged", "round", round)
			e.publish(ctx, events.Event{
				Type:       events.EventConverged,
				CampaignID: cc.ID(),
				Round:      round,
			})
			return
		}
	}
}

// runDecision fills any empty team slots with fallbacks and asks the lead
// for the executive verdict, falling back to the deterministic decision
// path if the lead fails.
func (e *Engine) runDecision(ctx context.Context, cc *CollaborationContext, logger *slog.Logger) agent.Decision {
	ctx, span := e.tracer.Start(ctx, PhaseExecutiveDecision,
		trace.WithAttributes(attribute.String("collaboration_id", cc.ID())))
	defer span.End()

	e.publishPhase(ctx, cc, events.EventPhaseStarted, PhaseExecutiveDecision, cc.Round())

	team := cc.TeamSnapshot()
	for _, name := range agent.TeamAgents {
		if _, ok := team[name]; !ok {
			p := agent.FallbackFor(name, cc.Round())
			cc.UpdateProposal(PhaseExecutiveDecision, p)
			team[name] = p
		}
	}

	var decision agent.Decision
	if e.lead == nil {
		decision = agent.FallbackDecision(team)
	} else {
		decision = e.askLead(ctx, cc, team, logger)
	}

	if err := cc.SetDecision(decision); err != nil {
		logger.Warn("decision already recorded", "error", err)
	}

	e.publish(ctx, events.Event{
		Type:       events.EventDecisionRendered,
		CampaignID: cc.ID(),
		AgentName:  string(agent.AgentLead),
		Phase:      PhaseExecutiveDecision,
		Attrs: map[string]any{
			"decision":   string(decision.Label),
			"priority":   string(decision.Priority),
			"confidence": decision.Confidence,
		},
	})
	e.publishPhase(ctx, cc, events.EventPhaseCompleted, PhaseExecutiveDecision, cc.Round())

	return decision
}

// askLead calls the lead agent, bounded by the run deadline. A lead that
// errors, panics or never returns yields the deterministic fallback
// decision instead.
func (e *Engine) askLead(ctx context.Context, cc *CollaborationContext, team map[agent.AgentName]agent.Proposal, logger *slog.Logger) agent.Decision {
	type verdict struct {
		decision agent.Decision
		err      error
	}
	ch := make(chan verdict, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- verdict{err: fmt.Errorf("lead agent panicked: %v", r)}
			}
		}()
		d, err := e.lead.MakeDecision(ctx, cc.Subject(), cc.Insights(), team)
		ch <- verdict{decision: d, err: err}
	}()

	select {
	case v := <-ch:
		if v.err != nil {
			logger.Warn("executive decision failed, using fallback decision", "error", v.err)
			return agent.FallbackDecision(team)
		}
		return v.decision
	case <-ctx.Done():
		logger.Warn("executive decision missed the run deadline, using fallback decision")
		return agent.FallbackDecision(team)
	}
}

// persistAsync stores the result without blocking the caller. Persistence
// failures are logged and published, never surfaced.
func (e *Engine) persistAsync(result Result) {
	if e.sink == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if err := e.sink.Save(ctx, result); err != nil {
			e.logger.Warn("result persistence failed",
				"collaboration_id", result.CollaborationID, "error", err)
			e.publish(ctx, events.Event{
				Type:       events.EventPersistenceFailed,
				CampaignID: result.CollaborationID,
				Attrs:      map[string]any{"error": err.Error()},
			})
			return
		}
		e.publish(ctx, events.Event{
			Type:       events.EventPersistenceSaved,
			CampaignID: result.CollaborationID,
		})
	}()
}

// panicResult builds the degraded result returned when a run panics.
func (e *Engine) panicResult(cc *CollaborationContext, subject agent.Subject) Result {
	if cc == nil {
		cc = NewCollaborationContext(subject, insight.Defaults(subject.Product))
	}
	team := cc.TeamSnapshot()
	for _, name := range agent.TeamAgents {
		if _, ok := team[name]; !ok {
			cc.UpdateProposal(PhaseCompile, agent.FallbackFor(name, cc.Round()))
		}
	}
	decision := agent.FallbackDecision(cc.TeamSnapshot())
	result := compile(cc, decision, cc.Insights())
	result.Degraded = true
	return result
}

func (e *Engine) publish(ctx context.Context, ev events.Event) {
	if e.bus == nil {
		return
	}
	ev.Timestamp = time.Now()
	// Events are advisory; a closed or full bus never affects the run.
	_ = e.bus.Publish(ctx, ev)
}

func (e *Engine) publishPhase(ctx context.Context, cc *CollaborationContext, t events.EventType, phase string, round int) {
	e.publish(ctx, events.Event{
		Type:       t,
		CampaignID: cc.ID(),
		Phase:      phase,
		Round:      round,
	})
}

func (e *Engine) publishAgent(ctx context.Context, cc *CollaborationContext, t events.EventType, name agent.AgentName, phase string, round int) {
	e.publish(ctx, events.Event{
		Type:       t,
		CampaignID: cc.ID(),
		AgentName:  string(name),
		Phase:      phase,
		Round:      round,
	})
}

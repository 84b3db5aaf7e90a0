package orchestrator

import (
	"context"
	"log/slog"

	"github.com/Veins19/MarketBridge/internal/database"
)

// PersistenceSink stores a completed collaboration result.
type PersistenceSink interface {
	Save(ctx context.Context, result Result) error
}

// databaseSink writes results to the collaborations table.
type databaseSink struct {
	dao    database.CollaborationDAO
	logger *slog.Logger
}

// NewDatabaseSink creates a PersistenceSink over the collaboration DAO.
func NewDatabaseSink(dao database.CollaborationDAO, logger *slog.Logger) PersistenceSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &databaseSink{dao: dao, logger: logger.With("component", "persistence")}
}

func (s *databaseSink) Save(ctx context.Context, result Result) error {
	metadata := map[string]any{
		"consensus":      result.Consensus,
		"degraded":       result.Degraded,
		"insight_source": result.InsightSource,
		"agent_status":   result.AgentStatus,
	}
	if len(result.FallbackAgents) > 0 {
		metadata["fallback_agents"] = result.FallbackAgents
	}

	rec := &database.CollaborationRecord{
		CollaborationID:    result.CollaborationID,
		Query:              result.Query,
		Product:            result.Product,
		Mode:               result.Mode,
		TotalRounds:        result.Rounds,
		TotalInteractions:  result.Interactions,
		FinalDecision:      string(result.Decision.Label),
		StrategicPriority:  string(result.Decision.Priority),
		SuccessProbability: result.Decision.SuccessProbability,
		Metadata:           metadata,
		Duration:           result.Duration,
	}

	if err := s.dao.Save(ctx, rec); err != nil {
		return err
	}

	s.logger.Debug("collaboration persisted",
		"collaboration_id", result.CollaborationID,
		"decision", string(result.Decision.Label))
	return nil
}

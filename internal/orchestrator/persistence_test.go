package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veins19/MarketBridge/internal/agent"
	"github.com/Veins19/MarketBridge/internal/database"
)

type fakeDAO struct {
	saved *database.CollaborationRecord
	err   error
}

func (f *fakeDAO) Save(_ context.Context, rec *database.CollaborationRecord) error {
	if f.err != nil {
		return f.err
	}
	f.saved = rec
	return nil
}

func (f *fakeDAO) GetByCollaborationID(context.Context, string) (*database.CollaborationRecord, error) {
	return nil, database.ErrCollaborationNotFound
}

func (f *fakeDAO) ListByProduct(context.Context, string, int) ([]*database.CollaborationRecord, error) {
	return nil, nil
}

func TestDatabaseSinkMapsResult(t *testing.T) {
	dao := &fakeDAO{}
	sink := NewDatabaseSink(dao, quietLogger())

	result := Result{
		CollaborationID: "analysis_deadbeef",
		Query:           "summer launch",
		Product:         "AuraSound X Headphones",
		Mode:            CollaborationMode,
		Decision: agent.Decision{
			Label:              agent.DecisionApproved,
			Priority:           agent.PriorityHigh,
			SuccessProbability: 0.87,
		},
		Rounds:         2,
		Interactions:   7,
		Consensus:      true,
		FallbackAgents: []agent.AgentName{agent.AgentCreative},
		InsightSource:  "database",
		Duration:       1200 * time.Millisecond,
	}

	require.NoError(t, sink.Save(context.Background(), result))
	require.NotNil(t, dao.saved)

	rec := dao.saved
	assert.Equal(t, "analysis_deadbeef", rec.CollaborationID)
	assert.Equal(t, "APPROVED", rec.FinalDecision)
	assert.Equal(t, "HIGH", rec.StrategicPriority)
	assert.Equal(t, 2, rec.TotalRounds)
	assert.Equal(t, 7, rec.TotalInteractions)
	assert.InDelta(t, 0.87, rec.SuccessProbability, 1e-9)
	assert.Equal(t, true, rec.Metadata["consensus"])
	assert.Contains(t, rec.Metadata, "fallback_agents")
}

func TestDatabaseSinkPropagatesError(t *testing.T) {
	boom := errors.New("disk full")
	sink := NewDatabaseSink(&fakeDAO{err: boom}, quietLogger())

	err := sink.Save(context.Background(), Result{CollaborationID: "analysis_00000000"})
	assert.ErrorIs(t, err, boom)
}

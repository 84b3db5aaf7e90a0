package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	ch, cleanup := bus.Subscribe(context.Background(), Filter{}, 10)
	defer cleanup()

	err := bus.Publish(context.Background(), Event{
		Type:       EventCampaignStarted,
		Timestamp:  time.Now(),
		CampaignID: "analysis_deadbeef",
	})
	require.NoError(t, err)

	select {
	case got := <-ch:
		assert.Equal(t, EventCampaignStarted, got.Type)
		assert.Equal(t, "analysis_deadbeef", got.CampaignID)
	case <-time.After(time.Second):
		t.Fatal("expected event was not delivered")
	}
}

func TestSubscribeFilterByType(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	ch, cleanup := bus.Subscribe(context.Background(), Filter{
		Types: []EventType{EventAgentFallback},
	}, 10)
	defer cleanup()

	require.NoError(t, bus.Publish(context.Background(), Event{Type: EventAgentStarted}))
	require.NoError(t, bus.Publish(context.Background(), Event{Type: EventAgentFallback, AgentName: "finance"}))

	select {
	case got := <-ch:
		assert.Equal(t, EventAgentFallback, got.Type)
		assert.Equal(t, "finance", got.AgentName)
	case <-time.After(time.Second):
		t.Fatal("filtered event was not delivered")
	}

	select {
	case unexpected := <-ch:
		t.Fatalf("received unexpected event: %v", unexpected.Type)
	default:
	}
}

func TestSubscribeFilterByCampaignAndAgent(t *testing.T) {
	f := Filter{CampaignID: "analysis_1", AgentName: "creative"}

	assert.True(t, f.Matches(Event{Type: EventAgentCompleted, CampaignID: "analysis_1", AgentName: "creative"}))
	assert.False(t, f.Matches(Event{Type: EventAgentCompleted, CampaignID: "analysis_2", AgentName: "creative"}))
	assert.False(t, f.Matches(Event{Type: EventAgentCompleted, CampaignID: "analysis_1", AgentName: "inventory"}))
}

func TestSlowSubscriberDropsEvents(t *testing.T) {
	var droppedMu sync.Mutex
	var dropped []string

	bus := NewEventBus(WithErrorHandler(func(err error, ctx map[string]any) {
		droppedMu.Lock()
		defer droppedMu.Unlock()
		dropped = append(dropped, string(ctx["event_type"].(EventType)))
	}))
	defer bus.Close()

	// Buffer of 1 and no consumer: the second publish must drop, not block.
	_, cleanup := bus.Subscribe(context.Background(), Filter{}, 1)
	defer cleanup()

	require.NoError(t, bus.Publish(context.Background(), Event{Type: EventRoundStarted}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = bus.Publish(context.Background(), Event{Type: EventRoundCompleted})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	droppedMu.Lock()
	defer droppedMu.Unlock()
	require.Len(t, dropped, 1)
	assert.Equal(t, string(EventRoundCompleted), dropped[0])
}

func TestPublishAfterCloseFails(t *testing.T) {
	bus := NewEventBus()
	require.NoError(t, bus.Close())

	err := bus.Publish(context.Background(), Event{Type: EventCampaignStarted})
	assert.Error(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	bus := NewEventBus()
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())
}

type countingRecorder struct {
	mu        sync.Mutex
	published int
	added     int
	removed   int
}

func (r *countingRecorder) RecordEventPublished(string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published++
}
func (r *countingRecorder) RecordEventDropped(string, string) {}
func (r *countingRecorder) RecordSubscriberAdded(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.added++
}
func (r *countingRecorder) RecordSubscriberRemoved(string, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed++
}

func TestMetricsRecorderHooks(t *testing.T) {
	rec := &countingRecorder{}
	bus := NewEventBus(WithMetrics(rec))
	defer bus.Close()

	ch, cleanup := bus.Subscribe(context.Background(), Filter{}, 5)
	require.NoError(t, bus.Publish(context.Background(), Event{Type: EventDecisionRendered}))
	<-ch
	cleanup()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, 1, rec.published)
	assert.Equal(t, 1, rec.added)
	assert.Equal(t, 1, rec.removed)
}

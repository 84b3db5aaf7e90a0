package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veins19/MarketBridge/internal/events"
)

func TestBusRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewBusRecorder(reg)

	bus := events.NewEventBus(events.WithMetrics(rec))
	defer bus.Close()

	ch, cleanup := bus.Subscribe(context.Background(), events.Filter{}, 5)
	require.NoError(t, bus.Publish(context.Background(), events.Event{
		Type:      events.EventCampaignStarted,
		Timestamp: time.Now(),
	}))
	<-ch

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.published.WithLabelValues(string(events.EventCampaignStarted))))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.subscribers))

	cleanup()
	assert.Equal(t, 0.0, testutil.ToFloat64(rec.subscribers))
}

func TestBusRecorderDropCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewBusRecorder(reg)

	bus := events.NewEventBus(events.WithMetrics(rec))
	defer bus.Close()

	_, cleanup := bus.Subscribe(context.Background(), events.Filter{}, 1)
	defer cleanup()

	require.NoError(t, bus.Publish(context.Background(), events.Event{Type: events.EventRoundStarted}))
	require.NoError(t, bus.Publish(context.Background(), events.Event{Type: events.EventRoundStarted}))

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.dropped.WithLabelValues(string(events.EventRoundStarted))))
}

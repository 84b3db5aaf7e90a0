// Package metrics provides a Prometheus-backed MetricsRecorder for the
// collaboration event bus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Veins19/MarketBridge/internal/events"
)

// BusRecorder implements events.MetricsRecorder using Prometheus collectors.
type BusRecorder struct {
	published   *prometheus.CounterVec
	dropped     *prometheus.CounterVec
	subscribers prometheus.Gauge
}

var _ events.MetricsRecorder = (*BusRecorder)(nil)

// NewBusRecorder creates a BusRecorder and registers its collectors with reg.
// Pass prometheus.DefaultRegisterer to use the process-wide registry.
func NewBusRecorder(reg prometheus.Registerer) *BusRecorder {
	r := &BusRecorder{
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketbridge",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Events published to the collaboration bus, by event type.",
		}, []string{"event_type"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketbridge",
			Subsystem: "events",
			Name:      "dropped_total",
			Help:      "Events dropped for slow subscribers, by event type.",
		}, []string{"event_type"}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "marketbridge",
			Subsystem: "events",
			Name:      "subscribers",
			Help:      "Active event bus subscribers.",
		}),
	}

	reg.MustRegister(r.published, r.dropped, r.subscribers)
	return r
}

// RecordEventPublished counts a successful publish of the given event type.
func (r *BusRecorder) RecordEventPublished(eventType string, subscriberCount int) {
	r.published.WithLabelValues(eventType).Inc()
}

// RecordEventDropped counts an event dropped for a slow subscriber.
func (r *BusRecorder) RecordEventDropped(eventType string, subscriberID string) {
	r.dropped.WithLabelValues(eventType).Inc()
}

// RecordSubscriberAdded tracks a new subscription.
func (r *BusRecorder) RecordSubscriberAdded(subscriberID string) {
	r.subscribers.Inc()
}

// RecordSubscriberRemoved tracks a removed subscription.
func (r *BusRecorder) RecordSubscriberRemoved(subscriberID string, duration time.Duration) {
	r.subscribers.Dec()
}

package events

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// EventBus manages event distribution to subscribers with filtering support.
//
// Thread safety:
//   - All methods are safe for concurrent use
//   - Non-blocking publish prevents slow subscribers from affecting publishers
//
// Slow consumer handling:
//   - Subscribers receive events through buffered channels
//   - If a subscriber's buffer is full, events are dropped for that subscriber
//   - Other subscribers are not affected by slow consumers
type EventBus interface {
	// Publish sends an event to all matching subscribers.
	// Returns an error only if the event bus is closed.
	// Never blocks on slow subscribers.
	Publish(ctx context.Context, event Event) error

	// Subscribe creates a subscription with optional filtering.
	// Returns a channel for receiving events and a cleanup function.
	// The cleanup function must be called to prevent resource leaks.
	Subscribe(ctx context.Context, filter Filter, bufferSize int) (<-chan Event, func())

	// Close shuts down the event bus and all subscriptions.
	// After Close returns, Publish will return an error.
	Close() error
}

// DefaultEventBus implements EventBus with buffered channels and
// non-blocking sends.
type DefaultEventBus struct {
	mu          sync.RWMutex
	subscribers map[string]*subscription
	options     *eventBusOptions
	closed      bool
}

// subscription represents a single subscriber with filtering and lifecycle
// bookkeeping.
type subscription struct {
	id       string
	ch       chan Event
	filter   Filter
	ctx      context.Context
	cancel   context.CancelFunc
	created  time.Time
	received atomic.Int64
	dropped  atomic.Int64
}

// eventBusOptions holds configuration for DefaultEventBus.
type eventBusOptions struct {
	defaultBufferSize int
	errorHandler      ErrorHandler
	metricsRecorder   MetricsRecorder
}

// ErrorHandler is called when an error occurs during event bus operations,
// most commonly a dropped event for a slow subscriber.
type ErrorHandler func(err error, context map[string]any)

// MetricsRecorder records metrics about event bus operations.
// Implementations can export to Prometheus, StatsD, etc.
type MetricsRecorder interface {
	// RecordEventPublished is called when an event is successfully published.
	RecordEventPublished(eventType string, subscriberCount int)

	// RecordEventDropped is called when an event is dropped for a slow subscriber.
	RecordEventDropped(eventType string, subscriberID string)

	// RecordSubscriberAdded is called when a new subscriber is created.
	RecordSubscriberAdded(subscriberID string)

	// RecordSubscriberRemoved is called when a subscriber is removed.
	RecordSubscriberRemoved(subscriberID string, duration time.Duration)
}

// Option is a functional option for configuring DefaultEventBus.
type Option func(*eventBusOptions)

// WithDefaultBufferSize sets the default buffer size for subscriber channels,
// used when Subscribe is called with bufferSize=0. Default: 100 events.
func WithDefaultBufferSize(size int) Option {
	return func(opts *eventBusOptions) {
		if size > 0 {
			opts.defaultBufferSize = size
		}
	}
}

// WithErrorHandler sets the error handler for event bus operations.
// Default: no-op handler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(opts *eventBusOptions) {
		if handler != nil {
			opts.errorHandler = handler
		}
	}
}

// WithMetrics sets the metrics recorder for event bus operations.
// Default: no-op recorder.
func WithMetrics(recorder MetricsRecorder) Option {
	return func(opts *eventBusOptions) {
		if recorder != nil {
			opts.metricsRecorder = recorder
		}
	}
}

// NewEventBus creates a new DefaultEventBus with the given options.
func NewEventBus(opts ...Option) *DefaultEventBus {
	options := &eventBusOptions{
		defaultBufferSize: 100,
		errorHandler:      noopErrorHandler,
		metricsRecorder:   noopMetricsRecorder{},
	}

	for _, opt := range opts {
		opt(options)
	}

	return &DefaultEventBus{
		subscribers: make(map[string]*subscription),
		options:     options,
	}
}

// Publish sends an event to all matching subscribers.
// If a subscriber's channel is full, the event is dropped for that subscriber
// to prevent blocking the publisher or other subscribers.
func (eb *DefaultEventBus) Publish(ctx context.Context, event Event) error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return fmt.Errorf("event bus is closed")
	}

	sent := 0
	dropped := 0

	for _, sub := range eb.subscribers {
		select {
		case <-sub.ctx.Done():
			// Subscriber disconnected; cleaned up by its cleanup func.
			continue
		default:
		}

		if !sub.filter.Matches(event) {
			continue
		}

		select {
		case sub.ch <- event:
			sent++
			sub.received.Add(1)
		case <-ctx.Done():
			return ctx.Err()
		default:
			dropped++
			sub.dropped.Add(1)
			eb.options.metricsRecorder.RecordEventDropped(string(event.Type), sub.id)
			eb.options.errorHandler(
				fmt.Errorf("dropped event for slow subscriber"),
				map[string]any{
					"subscriber_id": sub.id,
					"event_type":    event.Type,
					"campaign_id":   event.CampaignID,
					"agent_name":    event.AgentName,
				},
			)
		}
	}

	if sent > 0 || dropped > 0 {
		eb.options.metricsRecorder.RecordEventPublished(string(event.Type), sent)
	}

	return nil
}

// Subscribe creates a new subscription with optional filtering.
// The returned cleanup function must be called to unsubscribe.
func (eb *DefaultEventBus) Subscribe(ctx context.Context, filter Filter, bufferSize int) (<-chan Event, func()) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if bufferSize <= 0 {
		bufferSize = eb.options.defaultBufferSize
	}

	subCtx, cancel := context.WithCancel(ctx)

	sub := &subscription{
		id:      uuid.New().String(),
		ch:      make(chan Event, bufferSize),
		filter:  filter,
		ctx:     subCtx,
		cancel:  cancel,
		created: time.Now(),
	}

	eb.subscribers[sub.id] = sub
	eb.options.metricsRecorder.RecordSubscriberAdded(sub.id)

	cleanup := func() {
		eb.unsubscribe(sub.id)
	}

	return sub.ch, cleanup
}

// unsubscribe removes a subscription and closes its channel.
func (eb *DefaultEventBus) unsubscribe(subscriberID string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	sub, exists := eb.subscribers[subscriberID]
	if !exists {
		return
	}

	duration := time.Since(sub.created)
	sub.cancel()
	close(sub.ch)
	delete(eb.subscribers, subscriberID)

	eb.options.metricsRecorder.RecordSubscriberRemoved(subscriberID, duration)
}

// Close shuts down the event bus and all subscriptions.
func (eb *DefaultEventBus) Close() error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return nil
	}

	for id, sub := range eb.subscribers {
		sub.cancel()
		close(sub.ch)
		delete(eb.subscribers, id)
	}

	eb.closed = true
	return nil
}

// Stats returns the received/dropped counts per active subscriber,
// keyed by subscriber ID. Intended for diagnostics.
func (eb *DefaultEventBus) Stats() map[string][2]int64 {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	stats := make(map[string][2]int64, len(eb.subscribers))
	for id, sub := range eb.subscribers {
		stats[id] = [2]int64{sub.received.Load(), sub.dropped.Load()}
	}
	return stats
}

func noopErrorHandler(error, map[string]any) {}

type noopMetricsRecorder struct{}

func (noopMetricsRecorder) RecordEventPublished(string, int)              {}
func (noopMetricsRecorder) RecordEventDropped(string, string)             {}
func (noopMetricsRecorder) RecordSubscriberAdded(string)                  {}
func (noopMetricsRecorder) RecordSubscriberRemoved(string, time.Duration) {}

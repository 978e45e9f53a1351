// Package eventbus implements the Event Bus: a named, in-process
// publish/subscribe engine that enforces the CloudEvents 64 KiB size cap,
// fans events out to every subscription of their type concurrently, and
// retries a failing subscriber with capped exponential backoff before
// funneling the final error to that subscription's error sink. Publisher
// and subscriber failures are isolated from each other by design: only a
// size violation, or an event that cannot be serialized at all, is visible
// to PutEvent's caller.
package eventbus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/v4ll3l1/Nimbus/internal/clock"
	"github.com/v4ll3l1/Nimbus/internal/jsoncodec"
	"github.com/v4ll3l1/Nimbus/internal/logging"
	"github.com/v4ll3l1/Nimbus/internal/model"
	"github.com/v4ll3l1/Nimbus/internal/nerrors"
	"github.com/v4ll3l1/Nimbus/internal/telemetry"
)

// MaxEventSizeBytes is the CloudEvents wire-size cap enforced by PutEvent,
// measured on the JSON-encoded, UTF-8 byte length of the event.
const MaxEventSizeBytes = 65536

// Bus is a per-name registry of event-type subscriptions. The subscription
// list is append-mostly and safe for concurrent Subscribe/PutEvent calls.
type Bus struct {
	name string

	mu            sync.RWMutex
	subscriptions map[string][]*subscription

	defaultRetry RetryPolicy
	logger       logging.Logger
	telemetry    telemetry.Provider
	clock        clock.Clock
	logPublish   func(*model.Message)

	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
	wg             sync.WaitGroup

	eventsPublished  telemetry.Counter
	eventsDelivered  telemetry.Counter
	retryAttempts    telemetry.Counter
	handlingDuration telemetry.Histogram
	eventSizeBytes   telemetry.Histogram
}

// Option configures a Bus at construction time.
type Option func(*Bus)

func WithDefaultRetryPolicy(policy RetryPolicy) Option {
	return func(b *Bus) { b.defaultRetry = policy }
}

func WithLogger(l logging.Logger) Option {
	return func(b *Bus) { b.logger = l }
}

func WithTelemetry(p telemetry.Provider) Option {
	return func(b *Bus) { b.telemetry = p }
}

func WithClock(c clock.Clock) Option {
	return func(b *Bus) { b.clock = c }
}

// WithLogPublish installs a hook invoked with each event right after the
// publish span opens and metrics are recorded.
func WithLogPublish(fn func(*model.Message)) Option {
	return func(b *Bus) { b.logPublish = fn }
}

// New constructs a Bus. name identifies the instance in spans, metrics, and
// log records.
func New(name string, opts ...Option) *Bus {
	b := &Bus{
		name:          name,
		subscriptions: make(map[string][]*subscription),
		defaultRetry:  DefaultRetryPolicy(),
		logger:        logging.Nop,
		telemetry:     telemetry.Default(),
		clock:         clock.Real,
	}
	b.shutdownCtx, b.shutdownCancel = context.WithCancel(context.Background())
	for _, opt := range opts {
		opt(b)
	}

	b.eventsPublished = b.telemetry.Counter("eventbus_events_published_total", "eventbus_name", "event_type")
	b.eventsDelivered = b.telemetry.Counter("eventbus_events_delivered_total", "eventbus_name", "event_type", "status")
	b.retryAttempts = b.telemetry.Counter("eventbus_retry_attempts_total", "eventbus_name", "event_type")
	b.handlingDuration = b.telemetry.Histogram("eventbus_event_handling_duration_seconds", "s", "eventbus_name", "event_type")
	b.eventSizeBytes = b.telemetry.Histogram("eventbus_event_size_bytes", "By", "eventbus_name", "event_type")
	return b
}

// Subscribe appends a subscription for eventType. Multiple subscriptions
// per type are allowed; there is no handle returned because the core does
// not support dynamic unsubscribe.
func (b *Bus) Subscribe(eventType string, handler Handler, opts ...SubscribeOption) {
	cfg := subscribeOptions{}
	for _, opt := range opts {
		opt(&cfg)
	}

	retry := b.defaultRetry
	if cfg.retry != nil {
		retry = *cfg.retry
	}

	b.mu.Lock()
	b.subscriptions[eventType] = append(b.subscriptions[eventType], &subscription{
		handler: handler,
		onError: cfg.onError,
		retry:   retry,
	})
	b.mu.Unlock()

	b.logger.Info(logging.Record{
		Message:  "event subscription registered",
		Category: "eventbus",
		Data: map[string]any{
			"eventbus_name": b.name,
			"event_type":    eventType,
		},
	})
}

// PutEvent serializes evt, enforces the size cap, and schedules every
// matching subscription's delivery concurrently. It returns once dispatch
// has been scheduled, not once subscribers have finished handling it.
func (b *Bus) PutEvent(ctx context.Context, evt *model.Message) error {
	size, err := jsoncodec.Size(evt)
	if err != nil {
		return nerrors.Generic("failed to serialize event").WithCause(err)
	}
	if size > MaxEventSizeBytes {
		return nerrors.Generic("Event size exceeds the limit of 64KB").WithDetails(map[string]any{
			"eventType":      evt.Type,
			"eventSource":    evt.Source,
			"eventSizeBytes": size,
			"maxSizeBytes":   MaxEventSizeBytes,
		})
	}

	attrs := publishAttrs(b.name, evt)
	return b.telemetry.StartSpan(ctx, "eventbus.publish", telemetry.SpanKindProducer, attrs, func(ctx context.Context, span telemetry.Span) error {
		b.eventsPublished.Add(ctx, 1, telemetry.String("eventbus_name", b.name), telemetry.String("event_type", evt.Type))
		b.eventSizeBytes.Observe(ctx, float64(size), telemetry.String("eventbus_name", b.name), telemetry.String("event_type", evt.Type))

		if b.logPublish != nil {
			b.logPublish(evt)
		}

		b.mu.RLock()
		subs := append([]*subscription(nil), b.subscriptions[evt.Type]...)
		b.mu.RUnlock()

		for _, sub := range subs {
			sub := sub
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.deliver(b.shutdownCtx, sub, evt)
			}()
		}
		return nil
	})
}

// Close cancels the bus's internal shutdown context, aborting any pending
// retry sleeps so in-flight subscriber tasks can unwind. It does not wait
// for deliveries already inside a handler invocation to finish.
func (b *Bus) Close() {
	b.shutdownCancel()
}

func (b *Bus) deliver(ctx context.Context, sub *subscription, evt *model.Message) {
	attrs := append(publishAttrs(b.name, evt), telemetry.String("messaging.operation", "process"))
	start := b.clock.Now()

	var final error
	_ = b.telemetry.StartSpan(ctx, "eventbus.handle", telemetry.SpanKindConsumer, attrs, func(ctx context.Context, span telemetry.Span) error {
		attempt := 0
		for {
			err := sub.handler(ctx, evt)
			if err == nil {
				b.recordDelivery(ctx, evt.Type, start, "success")
				return nil
			}

			attempt++
			if attempt > int(sub.retry.MaxRetries) {
				b.recordDelivery(ctx, evt.Type, start, "error")
				final = nerrors.Generic(fmt.Sprintf("Failed to handle event: %s from %s", evt.Type, evt.Source)).WithCause(err)
				return final
			}

			delay := delayFor(sub.retry, attempt)
			b.retryAttempts.Add(ctx, 1, telemetry.String("eventbus_name", b.name), telemetry.String("event_type", evt.Type))
			span.AddEvent("retry", telemetry.Int64("attempt", int64(attempt)), telemetry.Int64("delay_ms", delay.Milliseconds()))
			b.clock.Sleep(ctx, delay)
		}
	})
	if final != nil {
		b.dispatchError(sub, final, evt)
	}
}

func (b *Bus) recordDelivery(ctx context.Context, eventType string, start time.Time, status string) {
	b.eventsDelivered.Add(ctx, 1,
		telemetry.String("eventbus_name", b.name),
		telemetry.String("event_type", eventType),
		telemetry.String("status", status),
	)
	b.handlingDuration.Observe(ctx, time.Since(start).Seconds(),
		telemetry.String("eventbus_name", b.name),
		telemetry.String("event_type", eventType),
	)
}

func (b *Bus) dispatchError(sub *subscription, err error, evt *model.Message) {
	if sub.onError != nil {
		sub.onError(err, evt)
		return
	}
	b.logger.Error(logging.Record{
		Message:       err.Error(),
		Category:      "eventbus",
		Error:         err,
		CorrelationID: evt.CorrelationID,
	})
}

func publishAttrs(busName string, evt *model.Message) []telemetry.Attr {
	attrs := []telemetry.Attr{
		telemetry.String("messaging.system", "nimbusEventBus"),
		telemetry.String("messaging.eventbus_name", busName),
		telemetry.String("messaging.operation", "publish"),
		telemetry.String("messaging.destination", evt.Type),
		telemetry.String("cloudevents.event_id", evt.ID),
		telemetry.String("cloudevents.event_source", evt.Source),
	}
	if evt.CorrelationID != "" {
		attrs = append(attrs, telemetry.String("correlation_id", evt.CorrelationID))
	}
	return attrs
}

// Package router implements the Message Router: a named, type-keyed
// dispatch table for commands and queries that validates each inbound
// message against its registered schema, invokes its handler, and emits
// the router.route span and router_messages_routed_total /
// router_routing_duration_seconds metrics on every call.
package router

import (
	"context"
	"sync"
	"time"

	"github.com/v4ll3l1/Nimbus/internal/logging"
	"github.com/v4ll3l1/Nimbus/internal/model"
	"github.com/v4ll3l1/Nimbus/internal/nerrors"
	"github.com/v4ll3l1/Nimbus/internal/telemetry"
	"github.com/v4ll3l1/Nimbus/internal/validate"
)

// Handler processes a message that has already passed schema validation
// and returns the result to hand back to the caller of Route.
type Handler func(ctx context.Context, msg *model.Message) (any, error)

type entry struct {
	handler Handler
	schema  validate.Validator
}

// Router is a per-name registry of (message type -> handler + schema). The
// handler map is read-mostly and safe for concurrent Register/Route calls.
type Router struct {
	name string

	mu      sync.RWMutex
	entries map[string]entry

	logger    logging.Logger
	telemetry telemetry.Provider
	logInput  func(*model.Message)
	logOutput func(any)

	messagesRouted  telemetry.Counter
	routingDuration telemetry.Histogram
}

// Option configures a Router at construction time.
type Option func(*Router)

// WithLogger overrides the Nop default logger.
func WithLogger(l logging.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// WithTelemetry overrides the default telemetry.Provider.
func WithTelemetry(p telemetry.Provider) Option {
	return func(r *Router) { r.telemetry = p }
}

// WithLogInput installs a hook invoked with the inbound message before
// validation and dispatch.
func WithLogInput(fn func(*model.Message)) Option {
	return func(r *Router) { r.logInput = fn }
}

// WithLogOutput installs a hook invoked with the handler's result after a
// successful dispatch.
func WithLogOutput(fn func(any)) Option {
	return func(r *Router) { r.logOutput = fn }
}

// New constructs a Router. name identifies the instance in spans, metrics,
// and log records.
func New(name string, opts ...Option) *Router {
	r := &Router{
		name:      name,
		entries:   make(map[string]entry),
		logger:    logging.Nop,
		telemetry: telemetry.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.messagesRouted = r.telemetry.Counter("router_messages_routed_total", "router_name", "message_type", "status")
	r.routingDuration = r.telemetry.Histogram("router_routing_duration_seconds", "s", "router_name", "message_type")
	return r
}

// Register idempotently replaces any previous registration for messageType.
// Concurrent registrations on the same type are last-writer-wins.
func (r *Router) Register(messageType string, handler Handler, schema validate.Validator) {
	r.mu.Lock()
	r.entries[messageType] = entry{handler: handler, schema: schema}
	r.mu.Unlock()

	r.logger.Info(logging.Record{
		Message:  "message handler registered",
		Category: "router",
		Data: map[string]any{
			"router_name":  r.name,
			"message_type": messageType,
		},
	})
}

// Route validates msg against its registered schema and dispatches it to
// the matching handler, following the routing algorithm in order: open a
// span, check for a type attribute, look up the handler, validate, invoke,
// and emit metrics on every exit path.
func (r *Router) Route(ctx context.Context, msg *model.Message) (any, error) {
	start := time.Now()

	destination := "unknown"
	if msg.HasType() {
		destination = msg.Type
	}

	attrs := []telemetry.Attr{
		telemetry.String("messaging.system", "nimbusRouter"),
		telemetry.String("messaging.router_name", r.name),
		telemetry.String("messaging.operation", "route"),
		telemetry.String("messaging.destination", destination),
	}
	if msg.CorrelationID != "" {
		attrs = append(attrs, telemetry.String("correlation_id", msg.CorrelationID))
	}

	var result any
	err := r.telemetry.StartSpan(ctx, "router.route", telemetry.SpanKindInternal, attrs, func(ctx context.Context, span telemetry.Span) error {
		if r.logInput != nil {
			r.logInput(msg)
		}

		if !msg.HasType() {
			return r.recordFailure(ctx, destination, start, nerrors.InvalidInput("The provided input has no type attribute"))
		}

		r.mu.RLock()
		e, ok := r.entries[msg.Type]
		r.mu.RUnlock()
		if !ok {
			return r.recordFailure(ctx, destination, start, nerrors.NotFound("Message handler not found").WithDetails(map[string]any{
				"reason": "no handler registered for message type " + msg.Type,
			}))
		}

		if e.schema != nil {
			validation := e.schema.Validate(msg.Data)
			if !validation.OK {
				return r.recordFailure(ctx, destination, start, nerrors.FromSchemaIssues("The provided input is invalid", toTaxonomyIssues(validation.Issues, "data")))
			}
		}

		res, handlerErr := e.handler(ctx, msg)
		if handlerErr != nil {
			// Handler errors are not translated: they propagate unchanged
			// so callers can distinguish domain errors from routing errors.
			return r.recordFailure(ctx, destination, start, handlerErr)
		}

		result = res
		if r.logOutput != nil {
			r.logOutput(res)
		}
		r.recordSuccess(ctx, destination, start)
		return nil
	})

	return result, err
}

func (r *Router) recordSuccess(ctx context.Context, messageType string, start time.Time) {
	r.messagesRouted.Add(ctx, 1,
		telemetry.String("router_name", r.name),
		telemetry.String("message_type", messageType),
		telemetry.String("status", "success"),
	)
	r.routingDuration.Observe(ctx, time.Since(start).Seconds(),
		telemetry.String("router_name", r.name),
		telemetry.String("message_type", messageType),
	)
}

func (r *Router) recordFailure(ctx context.Context, messageType string, start time.Time, err error) error {
	r.messagesRouted.Add(ctx, 1,
		telemetry.String("router_name", r.name),
		telemetry.String("message_type", messageType),
		telemetry.String("status", "error"),
	)
	r.routingDuration.Observe(ctx, time.Since(start).Seconds(),
		telemetry.String("router_name", r.name),
		telemetry.String("message_type", messageType),
	)
	return err
}

func toTaxonomyIssues(issues []validate.Issue, prefix string) []nerrors.Issue {
	out := make([]nerrors.Issue, len(issues))
	for i, issue := range issues {
		path := append([]string{prefix}, issue.Path...)
		out[i] = nerrors.Issue{
			Path:     path,
			Code:     issue.Code,
			Message:  issue.Message,
			Expected: issue.Expected,
			Received: issue.Received,
		}
	}
	return out
}

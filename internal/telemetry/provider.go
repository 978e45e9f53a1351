// Package telemetry defines the narrow Tracer/Meter capability the router
// and event bus depend on, so neither hard-binds to a specific tracing or
// metrics SDK. Concrete adapters for OpenTelemetry and Prometheus live in
// this package and are wired together only at the edge, in Provider.
package telemetry

import (
	"context"
	"sync"
)

// SpanKind mirrors the three OpenTelemetry span kinds the observability
// contract names.
type SpanKind string

const (
	SpanKindInternal SpanKind = "internal"
	SpanKindProducer SpanKind = "producer"
	SpanKindConsumer SpanKind = "consumer"
)

// Attr is a single span or metric attribute. Value is expected to be a
// string, bool, int, int64, or float64; adapters decide how to encode
// anything else.
type Attr struct {
	Key   string
	Value any
}

func String(key, value string) Attr { return Attr{Key: key, Value: value} }
func Bool(key string, value bool) Attr { return Attr{Key: key, Value: value} }
func Int64(key string, value int64) Attr { return Attr{Key: key, Value: value} }

// Span is the narrow surface a started span exposes back to the caller of
// StartSpan: recording an error, adding a timed event, and attaching late
// attributes.
type Span interface {
	AddEvent(name string, attrs ...Attr)
	RecordError(err error)
	SetAttributes(attrs ...Attr)
}

// Tracer starts a span, runs fn inside it, and ends the span on every exit
// path — success or panic-free error return. Implementations must not
// swallow fn's error; StartSpan returns it unchanged after recording it on
// the span.
type Tracer interface {
	StartSpan(ctx context.Context, name string, kind SpanKind, attrs []Attr, fn func(ctx context.Context, span Span) error) error
}

// Counter is a monotonically increasing measurement, identified by the
// label values supplied at Add time.
type Counter interface {
	Add(ctx context.Context, delta float64, attrs ...Attr)
}

// Histogram records a distribution of observed values.
type Histogram interface {
	Observe(ctx context.Context, value float64, attrs ...Attr)
}

// Meter creates (or returns the previously created) counter/histogram
// handle for a metric name. Implementations must create each underlying
// instrument at most once per process per name and reuse it thereafter.
type Meter interface {
	Counter(name string, labelNames ...string) Counter
	Histogram(name string, unit string, labelNames ...string) Histogram
}

// Provider bundles a Tracer and a Meter: everything the router and event
// bus need from observability.
type Provider interface {
	Tracer
	Meter
}

type provider struct {
	Tracer
	Meter
}

// NewProvider composes a Tracer and a Meter into a single Provider.
func NewProvider(tracer Tracer, meter Meter) Provider {
	return &provider{Tracer: tracer, Meter: meter}
}

// Default returns the provider new Routers and EventBuses use when none is
// configured explicitly: an OpenTelemetry tracer paired with a Prometheus
// meter registered against the default registerer, mirroring how the
// framework this one is modeled on wires tracing and metrics together. The
// provider is built once and shared by every caller, so each metric name is
// registered with the default registerer only once per process.
func Default() Provider {
	defaultProviderOnce.Do(func() {
		defaultProvider = NewProvider(NewOTelTracer("nimbus"), NewPrometheusMeter(nil))
	})
	return defaultProvider
}

var (
	defaultProviderOnce sync.Once
	defaultProvider     Provider
)

package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// OTelTracer adapts an OpenTelemetry tracer to the Tracer capability.
type OTelTracer struct {
	tracer oteltrace.Tracer
}

// NewOTelTracer returns a Tracer backed by otel.Tracer(instrumentationName).
// When no TracerProvider has been registered with otel.SetTracerProvider,
// spans are no-ops, which keeps the router and event bus usable without
// forcing every caller to wire a collector.
func NewOTelTracer(instrumentationName string) *OTelTracer {
	return &OTelTracer{tracer: otel.Tracer(instrumentationName)}
}

func (t *OTelTracer) StartSpan(ctx context.Context, name string, kind SpanKind, attrs []Attr, fn func(context.Context, Span) error) error {
	ctx, span := t.tracer.Start(ctx, name,
		oteltrace.WithSpanKind(toOTelKind(kind)),
		oteltrace.WithAttributes(toOTelAttrs(attrs)...),
	)
	defer span.End()

	err := fn(ctx, &otelSpan{span: span})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

type otelSpan struct {
	span oteltrace.Span
}

func (s *otelSpan) AddEvent(name string, attrs ...Attr) {
	s.span.AddEvent(name, oteltrace.WithAttributes(toOTelAttrs(attrs)...))
}

func (s *otelSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
}

func (s *otelSpan) SetAttributes(attrs ...Attr) {
	s.span.SetAttributes(toOTelAttrs(attrs)...)
}

func toOTelKind(kind SpanKind) oteltrace.SpanKind {
	switch kind {
	case SpanKindProducer:
		return oteltrace.SpanKindProducer
	case SpanKindConsumer:
		return oteltrace.SpanKindConsumer
	default:
		return oteltrace.SpanKindInternal
	}
}

func toOTelAttrs(attrs []Attr) []attribute.KeyValue {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		switch v := a.Value.(type) {
		case string:
			out = append(out, attribute.String(a.Key, v))
		case bool:
			out = append(out, attribute.Bool(a.Key, v))
		case int:
			out = append(out, attribute.Int(a.Key, v))
		case int64:
			out = append(out, attribute.Int64(a.Key, v))
		case float64:
			out = append(out, attribute.Float64(a.Key, v))
		default:
			out = append(out, attribute.String(a.Key, fmt.Sprintf("%v", v)))
		}
	}
	return out
}

package telemetry

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// NewOTelMeterProvider builds an OpenTelemetry SDK MeterProvider that
// exports measurements over OTLP/HTTP and registers it as the process-wide
// MeterProvider, so every OTelMeter created afterwards resolves its
// otel.Meter call against a real export pipeline instead of a no-op. An
// empty endpoint yields a no-op provider rather than an error, keeping the
// Router and Event Bus usable without a collector. Callers own the returned
// shutdown function and should call it during process teardown.
func NewOTelMeterProvider(ctx context.Context, serviceName, endpoint string) (otelmetric.MeterProvider, func(context.Context) error, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		mp := noop.NewMeterProvider()
		otel.SetMeterProvider(mp)
		return mp, func(context.Context) error { return nil }, nil
	}

	host, insecure, err := parseOTLPEndpoint(endpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("parse otlp endpoint: %w", err)
	}

	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(host)}
	if insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exp, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}

	if serviceName = strings.TrimSpace(serviceName); serviceName == "" {
		serviceName = "nimbus"
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return nil, nil, fmt.Errorf("create resource: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(15*time.Second))
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader), sdkmetric.WithResource(res))
	otel.SetMeterProvider(mp)

	return mp, mp.Shutdown, nil
}

func parseOTLPEndpoint(raw string) (string, bool, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", false, err
	}
	host := parsed.Host
	if host == "" {
		host = raw
	}
	insecure := parsed.Scheme != "https"
	return host, insecure, nil
}

// OTelMeter adapts an OpenTelemetry metrics pipeline to the Meter
// capability. It is an alternative to PrometheusMeter for deployments that
// export metrics through an OTel collector instead of scraping /metrics
// directly; label names are carried as attributes on each measurement
// rather than baked into a vector shape. Call NewOTelMeterProvider before
// constructing one to have its measurements actually leave the process;
// otherwise they fall back to whatever MeterProvider is globally registered
// (a no-op by default).
type OTelMeter struct {
	meter otelmetric.Meter

	mu         sync.Mutex
	counters   map[string]otelmetric.Float64Counter
	histograms map[string]otelmetric.Float64Histogram
}

// NewOTelMeter returns a Meter backed by otel.Meter(instrumentationName).
func NewOTelMeter(instrumentationName string) *OTelMeter {
	return &OTelMeter{
		meter:      otel.Meter(instrumentationName),
		counters:   make(map[string]otelmetric.Float64Counter),
		histograms: make(map[string]otelmetric.Float64Histogram),
	}
}

func (m *OTelMeter) Counter(name string, _ ...string) Counter {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.counters[name]
	if !ok {
		var err error
		c, err = m.meter.Float64Counter(name)
		if err != nil {
			panic(err)
		}
		m.counters[name] = c
	}
	return &otelCounter{counter: c}
}

func (m *OTelMeter) Histogram(name string, unit string, _ ...string) Histogram {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.histograms[name]
	if !ok {
		opts := []otelmetric.Float64HistogramOption{}
		if unit != "" {
			opts = append(opts, otelmetric.WithUnit(unit))
		}
		var err error
		h, err = m.meter.Float64Histogram(name, opts...)
		if err != nil {
			panic(err)
		}
		m.histograms[name] = h
	}
	return &otelHistogram{histogram: h}
}

type otelCounter struct {
	counter otelmetric.Float64Counter
}

func (c *otelCounter) Add(ctx context.Context, delta float64, attrs ...Attr) {
	c.counter.Add(ctx, delta, otelmetric.WithAttributes(toOTelAttrs(attrs)...))
}

type otelHistogram struct {
	histogram otelmetric.Float64Histogram
}

func (h *otelHistogram) Observe(ctx context.Context, value float64, attrs ...Attr) {
	h.histogram.Record(ctx, value, otelmetric.WithAttributes(toOTelAttrs(attrs)...))
}

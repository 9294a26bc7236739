// Package observability records chain-level measurements through an
// OpenTelemetry meter exported to Prometheus, and installs the tracer
// provider the stage spans are recorded with. Per-call counters live in
// internal/common/metrics.
package observability

import (
	"context"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	runCounter     otelmetric.Int64Counter
	runDuration    otelmetric.Float64Histogram
	stageErrors    otelmetric.Int64Counter
}

// New exports to the default Prometheus registry, which /metrics serves.
func New(serviceName string) *Observability {
	return NewWithRegisterer(serviceName, promclient.DefaultRegisterer)
}

// NewWithRegisterer exports metrics to reg and hands finished spans to
// processors. If the exporter cannot be built no metrics are recorded.
func NewWithRegisterer(serviceName string, reg promclient.Registerer, processors ...sdktrace.SpanProcessor) *Observability {
	opts := make([]sdktrace.TracerProviderOption, 0, len(processors))
	for _, p := range processors {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}
	tracerProvider := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tracerProvider)

	exporter, err := prometheus.New(prometheus.WithRegisterer(reg))
	if err != nil {
		return &Observability{tracerProvider: tracerProvider}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	meter := provider.Meter(serviceName)

	runCounter, _ := meter.Int64Counter(
		"chain.runs",
		otelmetric.WithDescription("Number of submission and arena runs"),
	)
	runDuration, _ := meter.Float64Histogram(
		"chain.duration",
		otelmetric.WithDescription("Wall time of a submission or arena run"),
		otelmetric.WithUnit("ms"),
	)
	stageErrors, _ := meter.Int64Counter(
		"chain.stage_errors",
		otelmetric.WithDescription("Stage failures shown to the user"),
	)

	return &Observability{
		meterProvider:  provider,
		tracerProvider: tracerProvider,
		runCounter:     runCounter,
		runDuration:    runDuration,
		stageErrors:    stageErrors,
	}
}

// NewNoop returns an Observability that records nothing.
func NewNoop() *Observability {
	return &Observability{}
}

// RecordRun counts one finished run of kind ("submit" or "arena") with its outcome.
func (o *Observability) RecordRun(ctx context.Context, kind, status string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("status", status),
	)
	if o.runCounter != nil {
		o.runCounter.Add(ctx, 1, attrs)
	}
	if o.runDuration != nil {
		o.runDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

// RecordStageError counts a failure that reached the error banner.
func (o *Observability) RecordStageError(ctx context.Context, stage, code string) {
	if o == nil || o.stageErrors == nil {
		return
	}
	o.stageErrors.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("code", code),
	))
}

// Shutdown flushes pending spans and stops both providers.
func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
}

package observability

import (
	"context"
	"time"

	"employee-onboarding/internal/common/logger"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Observability records stepper activity through OpenTelemetry. Metrics
// are exported on a prometheus registry.
type Observability struct {
	meterProvider *metric.MeterProvider
	tracer        trace.Tracer
	stepCounter   otelmetric.Int64Counter
	stepDuration  otelmetric.Float64Histogram
}

func New(serviceName string, log logger.Logger) *Observability {
	return NewWithRegisterer(serviceName, log, prometheus.DefaultRegisterer)
}

// NewWithRegisterer exports on reg instead of the default registry.
func NewWithRegisterer(serviceName string, log logger.Logger, reg prometheus.Registerer) *Observability {
	obs := &Observability{tracer: otel.Tracer(serviceName)}

	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		log.Warn("Failed to create Prometheus exporter", map[string]interface{}{"error": err.Error()})
		return obs
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceName(serviceName),
	))
	if err != nil {
		res = resource.Default()
	}

	provider := metric.NewMeterProvider(
		metric.WithReader(exporter),
		metric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	stepCounter, _ := meter.Int64Counter(
		"onboarding_steps_advanced",
		otelmetric.WithDescription("Number of advance attempts by section and status"),
	)

	stepDuration, _ := meter.Float64Histogram(
		"onboarding_steps_duration",
		otelmetric.WithDescription("Advance duration including validation and submission"),
		otelmetric.WithUnit("ms"),
	)

	obs.meterProvider = provider
	obs.stepCounter = stepCounter
	obs.stepDuration = stepDuration
	return obs
}

// StartStep opens a span for one advance attempt.
func (o *Observability) StartStep(ctx context.Context, section string) (context.Context, trace.Span) {
	tracer := o.tracer
	if tracer == nil {
		tracer = otel.Tracer("employee-onboarding")
	}
	return tracer.Start(ctx, "onboarding.advance", trace.WithAttributes(
		attribute.String("section", section),
	))
}

// EndStep records the outcome on the span and the step instruments.
func (o *Observability) EndStep(ctx context.Context, span trace.Span, section, status string, started time.Time, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.String("status", status))
	span.End()

	attrs := otelmetric.WithAttributes(
		attribute.String("section", section),
		attribute.String("status", status),
	)
	if o.stepCounter != nil {
		o.stepCounter.Add(ctx, 1, attrs)
	}
	if o.stepDuration != nil {
		o.stepDuration.Record(ctx, float64(time.Since(started).Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = o.meterProvider.Shutdown(ctx)
	}
}

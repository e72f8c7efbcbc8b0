package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Telemetry handles all observability concerns: tracing and metrics
type Telemetry struct {
	TracerProvider     *sdktrace.TracerProvider
	MeterProvider      *sdkmetric.MeterProvider
	PrometheusExporter *prometheus.Exporter
	Tracer             trace.Tracer
	Meter              metric.Meter
	config             *TelemetryConfig
	logger             *zap.Logger
}

// TelemetryMetrics contains pre-created metrics for common operations
type TelemetryMetrics struct {
	HTTPRequestDuration metric.Float64Histogram
	HTTPRequestCount    metric.Int64Counter
	AnalysisDuration    metric.Float64Histogram
	LeetCodeRequests    metric.Int64Counter
	SolvedCacheLookups  metric.Int64Counter
	CoachingGenerations metric.Int64Counter
}

// NewTelemetry initializes OpenTelemetry with tracing and metrics.
// Metrics are always exported through Prometheus; traces only when enabled.
func NewTelemetry(ctx context.Context, config *TelemetryConfig, logger *zap.Logger) (*Telemetry, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
			attribute.String("environment", config.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	promExporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(promExporter),
	)
	otel.SetMeterProvider(meterProvider)

	t := &Telemetry{
		MeterProvider:      meterProvider,
		PrometheusExporter: promExporter,
		Meter:              meterProvider.Meter(config.ServiceName),
		config:             config,
		logger:             logger,
	}

	if !config.Enabled {
		logger.Info("Tracing disabled, using noop tracer")
		t.Tracer = otel.Tracer(config.ServiceName)
		return t, nil
	}

	traceExporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(config.OTLPEndpoint),
		otlptracehttp.WithInsecure(), // Use TLS in production
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(traceExporter,
			sdktrace.WithBatchTimeout(5*time.Second),
			sdktrace.WithMaxExportBatchSize(512),
		),
		sdktrace.WithSampler(sdktrace.ParentBased(
			sdktrace.TraceIDRatioBased(config.SampleRatio),
		)),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.TracerProvider = tracerProvider
	t.Tracer = tracerProvider.Tracer(config.ServiceName)

	logger.Info("Telemetry initialized",
		zap.String("service", config.ServiceName),
		zap.String("version", config.ServiceVersion),
		zap.String("otlp_endpoint", config.OTLPEndpoint),
	)
	return t, nil
}

// CreateMetrics initializes all application metrics
func (t *Telemetry) CreateMetrics() (*TelemetryMetrics, error) {
	return NewTelemetryMetrics(t.Meter)
}

// NewTelemetryMetrics creates the application instruments on meter
func NewTelemetryMetrics(meter metric.Meter) (*TelemetryMetrics, error) {
	httpDuration, err := meter.Float64Histogram(
		"http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	httpCount, err := meter.Int64Counter(
		"http.request.count",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	analysisDuration, err := meter.Float64Histogram(
		"analysis.duration",
		metric.WithDescription("Analysis duration in seconds by operation"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	leetcodeRequests, err := meter.Int64Counter(
		"leetcode.requests",
		metric.WithDescription("LeetCode GraphQL requests by operation and outcome"),
	)
	if err != nil {
		return nil, err
	}

	cacheLookups, err := meter.Int64Counter(
		"solved_cache.lookups",
		metric.WithDescription("Solved-set cache lookups by result"),
	)
	if err != nil {
		return nil, err
	}

	coaching, err := meter.Int64Counter(
		"coaching.generations",
		metric.WithDescription("Coaching plan generations by outcome"),
	)
	if err != nil {
		return nil, err
	}

	return &TelemetryMetrics{
		HTTPRequestDuration: httpDuration,
		HTTPRequestCount:    httpCount,
		AnalysisDuration:    analysisDuration,
		LeetCodeRequests:    leetcodeRequests,
		SolvedCacheLookups:  cacheLookups,
		CoachingGenerations: coaching,
	}, nil
}

// NoopMetrics returns instruments that record nothing, for the CLI and tests
func NoopMetrics() *TelemetryMetrics {
	m, _ := NewTelemetryMetrics(otel.GetMeterProvider().Meter("conlit"))
	return m
}

// Shutdown gracefully shuts down telemetry providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			t.logger.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			t.logger.Error("Failed to shutdown meter provider", zap.Error(err))
		}
	}
	t.logger.Info("Telemetry shutdown complete")
	return nil
}

// RecordOutcome adds one to counter tagged with operation and outcome
func RecordOutcome(ctx context.Context, counter metric.Int64Counter, operation string, err error) {
	if counter == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

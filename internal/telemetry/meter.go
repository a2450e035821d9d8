package telemetry

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hiroki-koketsu/taskcore/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metrics holds the custom metrics instruments for the application.
type Metrics struct {
	RequestCounter  metric.Int64Counter
	RequestDuration metric.Float64Histogram
	MutationCounter metric.Int64Counter
	TasksGauge      metric.Int64ObservableGauge
	CompletionGauge metric.Float64ObservableGauge
	source          TaskSource
}

// TaskSource feeds the observable gauges.
type TaskSource interface {
	Count() int64
	CompletionRate() float64
}

// InitMeterProvider initializes the OpenTelemetry meter provider and sets it
// as the global provider. The "none" exporter yields a provider without
// readers.
func InitMeterProvider(ctx context.Context, s Settings) (*sdkmetric.MeterProvider, error) {
	res, err := newResource(s)
	if err != nil {
		return nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}

	var exporter sdkmetric.Exporter
	switch s.Exporter {
	case config.ExporterOTLP:
		conn, err := newConn(s.OTLPEndpoint)
		if err != nil {
			return nil, err
		}
		exporter, err = otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
		if err != nil {
			return nil, fmt.Errorf("failed to create metric exporter: %w", err)
		}
	case config.ExporterStdout:
		exporter, err = stdoutmetric.New(stdoutmetric.WithWriter(os.Stdout))
		if err != nil {
			return nil, fmt.Errorf("failed to create metric exporter: %w", err)
		}
	}
	if exporter != nil {
		// Periodic reader with a 10 second interval
		opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(10*time.Second),
		)))
	}

	mp := sdkmetric.NewMeterProvider(opts...)

	otel.SetMeterProvider(mp)

	return mp, nil
}

// NewMetrics creates and registers custom metrics instruments.
func NewMetrics(meter metric.Meter, source TaskSource) (*Metrics, error) {
	m := &Metrics{
		source: source,
	}

	var err error

	// Counter for total HTTP requests
	m.RequestCounter, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request counter: %w", err)
	}

	// Histogram for request duration
	m.RequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request duration histogram: %w", err)
	}

	m.MutationCounter, err = meter.Int64Counter(
		"task_mutations_total",
		metric.WithDescription("Store state changes by kind"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mutation counter: %w", err)
	}

	// Observable gauge for current task count
	m.TasksGauge, err = meter.Int64ObservableGauge(
		"tasks_total",
		metric.WithDescription("Current number of tasks in the system"),
		metric.WithUnit("{task}"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(m.source.Count())
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks gauge: %w", err)
	}

	m.CompletionGauge, err = meter.Float64ObservableGauge(
		"tasks_completion_ratio",
		metric.WithDescription("Fraction of tasks that are completed"),
		metric.WithUnit("1"),
		metric.WithFloat64Callback(func(_ context.Context, o metric.Float64Observer) error {
			o.Observe(m.source.CompletionRate())
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create completion gauge: %w", err)
	}

	return m, nil
}

// RecordMutation counts one store state change of the given kind.
func (m *Metrics) RecordMutation(ctx context.Context, kind string) {
	m.MutationCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("mutation.kind", kind)))
}

// RecordRequest records count and latency for one HTTP request.
func (m *Metrics) RecordRequest(ctx context.Context, method, route string, status int, start time.Time) {
	duration := time.Since(start).Seconds()

	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)

	m.RequestCounter.Add(ctx, 1, attrs)
	m.RequestDuration.Record(ctx, duration, attrs)
}

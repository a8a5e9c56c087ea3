package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config holds the OpenTelemetry export settings. With Enabled false the
// service gets a no-op tracer and never dials the collector.
type Config struct {
	Enabled        bool          `env:"ENABLED" envDefault:"false"`
	ServiceName    string        `env:"SERVICE_NAME" envDefault:"teamly-article-webhook"`
	ServiceVersion string        `env:"SERVICE_VERSION" envDefault:"1.0.0"`
	Environment    string        `env:"ENVIRONMENT" envDefault:"development"`
	Endpoint       string        `env:"ENDPOINT" envDefault:"localhost:4318"`
	Insecure       bool          `env:"INSECURE" envDefault:"true"`
	SampleRate     float64       `env:"SAMPLE_RATE" envDefault:"1.0"`
	BatchTimeout   time.Duration `env:"BATCH_TIMEOUT" envDefault:"1s"`
	ExportTimeout  time.Duration `env:"EXPORT_TIMEOUT" envDefault:"30s"`
	MaxExportBatch int           `env:"MAX_EXPORT_BATCH" envDefault:"512"`
	MaxQueueSize   int           `env:"MAX_QUEUE_SIZE" envDefault:"2048"`
}

// Provider hands out tracers and flushes pending spans on shutdown.
type Provider struct {
	provider trace.TracerProvider
	name     string
	shutdown func(context.Context) error
}

func NewProvider(config Config) (*Provider, error) {
	if !config.Enabled {
		return NewNoopProvider(config.ServiceName), nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
			attribute.String("service.environment", config.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(config.Endpoint),
		otlptracehttp.WithTimeout(config.ExportTimeout),
	}
	if config.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	processor := sdktrace.NewBatchSpanProcessor(
		exporter,
		sdktrace.WithBatchTimeout(config.BatchTimeout),
		sdktrace.WithExportTimeout(config.ExportTimeout),
		sdktrace.WithMaxExportBatchSize(config.MaxExportBatch),
		sdktrace.WithMaxQueueSize(config.MaxQueueSize),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(processor),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(config.SampleRate))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Provider{
		provider: tp,
		name:     config.ServiceName,
		shutdown: func(ctx context.Context) error {
			if err := tp.ForceFlush(ctx); err != nil {
				return fmt.Errorf("failed to flush traces: %w", err)
			}
			return tp.Shutdown(ctx)
		},
	}, nil
}

func NewNoopProvider(name string) *Provider {
	return &Provider{
		provider: noop.NewTracerProvider(),
		name:     name,
		shutdown: func(context.Context) error { return nil },
	}
}

func (p *Provider) Tracer() trace.Tracer {
	return p.provider.Tracer(p.name)
}

// Propagator returns the propagator used to pick up trace context from
// inbound webhook requests.
func (p *Provider) Propagator() propagation.TextMapPropagator {
	return otel.GetTextMapPropagator()
}

func (p *Provider) Shutdown(ctx context.Context) error {
	return p.shutdown(ctx)
}

package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

const exporterTimeout = time.Second * 3

// grpc wins when both endpoints are given
func (c OtlpConnConfig) useGrpc() bool {
	return c.GrpcEndpoint != ""
}

func (c OtlpConnConfig) endpoint() string {
	if c.useGrpc() {
		return c.GrpcEndpoint
	}
	return c.HttpEndpoint
}

func (c OtlpConnConfig) log(signal string) {
	transport := "http"
	if c.useGrpc() {
		transport = "grpc"
	}
	slog.Debug(
		"otlp exporter initialized",
		"signal", signal,
		"type", transport,
		"endpoint", c.endpoint(),
		"headers", len(c.Headers) > 0,
	)
}

func newTraceProvider(ctx context.Context, r *resource.Resource, config Config) (*trace.TracerProvider, error) {
	exporter, err := newSpanExporter(ctx, config.Otlp.Traces)
	if err != nil {
		return nil, fmt.Errorf("trace exporter: %w", err)
	}
	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(r),
	), nil
}

func newSpanExporter(ctx context.Context, c OtlpConnConfig) (trace.SpanExporter, error) {
	ctx, cancel := context.WithTimeout(ctx, exporterTimeout)
	defer cancel()

	c.log("traces")
	if c.useGrpc() {
		return otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpointURL(c.GrpcEndpoint),
			otlptracegrpc.WithHeaders(c.Headers),
		)
	}
	return otlptracehttp.New(
		ctx,
		otlptracehttp.WithEndpointURL(c.HttpEndpoint),
		otlptracehttp.WithHeaders(c.Headers),
	)
}

func newMetricProvider(ctx context.Context, r *resource.Resource, config Config) (*metric.MeterProvider, error) {
	exporter, err := newMetricExporter(ctx, config.Otlp.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metric exporter: %w", err)
	}
	return metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter, metric.WithInterval(time.Second*5))),
		metric.WithResource(r),
	), nil
}

func newMetricExporter(ctx context.Context, c OtlpConnConfig) (metric.Exporter, error) {
	ctx, cancel := context.WithTimeout(ctx, exporterTimeout)
	defer cancel()

	c.log("metrics")
	if c.useGrpc() {
		return otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithEndpointURL(c.GrpcEndpoint),
			otlpmetricgrpc.WithHeaders(c.Headers),
		)
	}
	return otlpmetrichttp.New(
		ctx,
		otlpmetrichttp.WithEndpointURL(c.HttpEndpoint),
		otlpmetrichttp.WithHeaders(c.Headers),
	)
}

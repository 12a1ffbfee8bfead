// Package telemetry sets up OpenTelemetry tracing for outbound REST calls.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// InstrumentationName is the tracer name used by the console.
const InstrumentationName = "rpsadmin/rest"

// Provider hands out tracers and flushes spans on shutdown.
// The zero value is not usable; construct with Setup or Noop.
type Provider struct {
	sdk      *sdktrace.TracerProvider
	fallback oteltrace.TracerProvider
}

// Setup returns an OTLP/HTTP-backed provider when endpoint is set,
// and a no-op provider otherwise.
func Setup(ctx context.Context, endpoint, serviceName string) (*Provider, error) {
	if endpoint == "" {
		return Noop(), nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}

	if serviceName == "" {
		serviceName = "rpsadmin"
	}
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	return &Provider{
		sdk: sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		),
	}, nil
}

// Noop returns a provider whose spans are discarded.
func Noop() *Provider {
	return &Provider{fallback: noop.NewTracerProvider()}
}

// Enabled reports whether spans are exported.
func (p *Provider) Enabled() bool {
	return p != nil && p.sdk != nil
}

// Tracer returns the console tracer.
func (p *Provider) Tracer() oteltrace.Tracer {
	if p.Enabled() {
		return p.sdk.Tracer(InstrumentationName)
	}
	if p != nil && p.fallback != nil {
		return p.fallback.Tracer(InstrumentationName)
	}
	return noop.NewTracerProvider().Tracer(InstrumentationName)
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	return p.sdk.Shutdown(ctx)
}

// Package trace sets up OpenTelemetry tracing for engine requests.
package trace

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// DefaultServiceName is reported when no service name is configured.
const DefaultServiceName = "tweakdeck"

// Provider is a configured tracer provider and its shutdown hook.
type Provider struct {
	oteltrace.TracerProvider
	sdk *sdktrace.TracerProvider
}

// Enabled reports whether spans are exported anywhere.
func (p *Provider) Enabled() bool {
	return p != nil && p.sdk != nil
}

// Setup creates a tracer provider exporting to an OTLP/HTTP endpoint and
// installs it globally. endpoint is either host:port, exported to over plain
// HTTP, or a full URL. An empty endpoint disables export: the returned
// provider records nothing.
func Setup(ctx context.Context, endpoint, serviceName string) (*Provider, error) {
	if endpoint == "" {
		p := &Provider{TracerProvider: noop.NewTracerProvider()}
		otel.SetTracerProvider(p.TracerProvider)
		return p, nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure()}
	if strings.Contains(endpoint, "://") {
		opts = []otlptracehttp.Option{otlptracehttp.WithEndpointURL(endpoint)}
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	if serviceName == "" {
		serviceName = DefaultServiceName
	}
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	sdk := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(sdk)
	return &Provider{TracerProvider: sdk, sdk: sdk}, nil
}

// Shutdown flushes pending spans and closes the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	return p.sdk.Shutdown(ctx)
}

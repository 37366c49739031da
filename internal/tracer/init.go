package tracer

import (
	"context"
	"log"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

const serviceName = "multikb-rag-backend"

// InitTracer wires the global OpenTelemetry provider to an OTLP HTTP
// collector. Opt-in via OTEL_ENABLED=true; otherwise, and on any exporter
// setup failure, the returned shutdown is a no-op and requests run
// untraced. Ingestion and chat latency is dominated by embedding and LLM
// calls, which is exactly what the otelfiber spans expose.
func InitTracer() func(context.Context) error {
	noop := func(context.Context) error { return nil }

	if os.Getenv("OTEL_ENABLED") != "true" {
		log.Println("Tracing disabled (OTEL_ENABLED != true)")
		return noop
	}

	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		// default OTLP/HTTP port of a local collector or Jaeger
		endpoint = "localhost:4318"
	}

	exporter, err := otlptracehttp.New(context.Background(),
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		log.Printf("Tracing disabled, exporter setup failed: %v", err)
		return noop
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
		)),
	)
	otel.SetTracerProvider(tp)

	log.Printf("Tracing enabled, exporting to %s", endpoint)
	return tp.Shutdown
}

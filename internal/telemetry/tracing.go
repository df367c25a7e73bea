// Package telemetry installs the OpenTelemetry tracer provider.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ShutdownFunc flushes and stops the provider.
type ShutdownFunc func(context.Context) error

// Options select where spans go. With Stdout unset, spans are sent over
// OTLP/HTTP as configured by the OTEL_EXPORTER_OTLP_* variables.
type Options struct {
	Enabled     bool
	Stdout      bool
	ServiceName string
	// Writer receives stdout spans; defaults to os.Stdout.
	Writer io.Writer
}

// Setup installs a global tracer provider. When tracing is disabled the
// returned ShutdownFunc does nothing.
func Setup(ctx context.Context, opts Options) (ShutdownFunc, error) {
	if !opts.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	var (
		exporter sdktrace.SpanExporter
		err      error
	)
	if opts.Stdout {
		w := opts.Writer
		if w == nil {
			w = os.Stdout
		}
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	} else {
		exporter, err = otlptracehttp.New(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	name := opts.ServiceName
	if name == "" {
		name = "council-api"
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", name))),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// Package telemetry configures OpenTelemetry tracing for a hook run.
//
// Tracing is off unless REVIEWGATE_TRACE_FILE names a file; spans are then
// appended to it as JSON, one hook invocation at a time.
package telemetry

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// EnvTraceFile names the file spans are written to.
const EnvTraceFile = "REVIEWGATE_TRACE_FILE"

// Shutdown flushes and closes whatever Init opened.
type Shutdown func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// Init installs the global tracer provider. Without EnvTraceFile it installs
// a no-op provider.
func Init(version string) (Shutdown, error) {
	path := os.Getenv(EnvTraceFile)
	if path == "" {
		otel.SetTracerProvider(tracenoop.NewTracerProvider())
		return noopShutdown, nil
	}
	return initFile(path, version)
}

func initFile(path, version string) (Shutdown, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		otel.SetTracerProvider(tracenoop.NewTracerProvider())
		return noopShutdown, fmt.Errorf("telemetry: opening %s: %w", path, err)
	}

	exp, err := stdouttrace.New(stdouttrace.WithWriter(f))
	if err != nil {
		_ = f.Close()
		otel.SetTracerProvider(tracenoop.NewTracerProvider())
		return noopShutdown, fmt.Errorf("telemetry: exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", "reviewgate"),
		attribute.String("service.version", version),
	)
	// The process lives for one hook run, so export synchronously.
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSyncer(exp),
	)
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return err
	}, nil
}

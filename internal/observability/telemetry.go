// Package observability installs a shared OpenTelemetry TracerProvider,
// exported over OTLP/HTTP, that the debug HTTP surface's otelgin middleware
// reports into; the tick loop opens no spans. Tracing is ambient: the game
// singleton never blocks on or reads back from spans.
package observability

import (
	"context"
	"time"

	"github.com/and0p/chaos-core/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// InitTelemetry configures an OTLP/HTTP exporter (default localhost:4318)
// and installs it as the global TracerProvider. The returned shutdown func
// must be called on process exit to flush pending spans.
func InitTelemetry(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	exp, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, err
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	logging.LogInfo("observability: OpenTelemetry initialized (OTLP/HTTP, service=%s)", serviceName)

	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}
	return shutdown, nil
}

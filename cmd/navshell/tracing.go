package main

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// logProcessor writes finished spans to the log at debug level.
type logProcessor struct {
	logger *slog.Logger
}

func (p logProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (p logProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	attrs := []any{
		"span", s.Name(),
		"trace_id", s.SpanContext().TraceID().String(),
		"duration", s.EndTime().Sub(s.StartTime()),
	}
	for _, kv := range s.Attributes() {
		attrs = append(attrs, string(kv.Key), kv.Value.Emit())
	}
	p.logger.Debug("span", attrs...)
}

func (p logProcessor) Shutdown(context.Context) error   { return nil }
func (p logProcessor) ForceFlush(context.Context) error { return nil }

// setupTracing installs a global tracer provider that samples every span
// and logs it. The returned func shuts the provider down.
func setupTracing(logger *slog.Logger) func(context.Context) error {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSpanProcessor(logProcessor{logger: logger.With("component", "tracing")}),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}

// Package obs wires OpenTelemetry tracing to a span-correlated slog logger,
// trimmed from the teacher's gRPC-oriented observability package down to
// what a single-process CLI needs: a local stdout trace exporter and a
// logger whose records pick up the active span's trace/span IDs.
package obs

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
)

var (
	initOnce sync.Once
	tp       *sdktrace.TracerProvider
	logger   *slog.Logger
	enabled  bool
)

// Init starts the local trace pipeline. When traceOn is false, spans are
// still created (callers never need to nil-check) but the exporter writes
// to io.Discard, matching the Log=No behaviour of spec §4.2's env model.
func Init(traceOn bool, minLevel slog.Level) {
	initOnce.Do(func() {
		enabled = traceOn
		out := os.Stderr
		var exporter *stdouttrace.Exporter
		var err error
		if traceOn {
			exporter, err = stdouttrace.New(stdouttrace.WithWriter(out), stdouttrace.WithoutTimestamps())
		} else {
			exporter, err = stdouttrace.New(stdouttrace.WithWriter(discard{}))
		}
		if err != nil {
			// Tracing is a diagnostic aid, never a reason to abort the REPL.
			exporter, _ = stdouttrace.New(stdouttrace.WithWriter(discard{}))
		}

		res, _ := sdkresource.New(context.Background(),
			sdkresource.WithAttributes(
				attribute.String("service.name", "sso"),
				attribute.String("service.namespace", "sso-dsl"),
			),
		)

		tp = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(tp)

		handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: minLevel})
		logger = slog.New(&spanHandler{next: handler})
	})
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// Shutdown flushes the trace pipeline. Safe to call even if Init was never
// called.
func Shutdown(ctx context.Context) error {
	if tp == nil {
		return nil
	}
	return tp.Shutdown(ctx)
}

// Logger returns the process-wide span-aware logger, initializing a
// discard-mode pipeline on first use if Init was never called.
func Logger() *slog.Logger {
	if logger == nil {
		Init(false, slog.LevelWarn)
	}
	return logger
}

// Tracer returns the named tracer for a component (e.g. "calculator",
// "eclipse").
func Tracer(component string) trace.Tracer {
	if tp == nil {
		Init(false, slog.LevelWarn)
	}
	return otel.GetTracerProvider().Tracer(component)
}

// Start begins a span under the given component's tracer.
func Start(ctx context.Context, component, name string) (context.Context, trace.Span) {
	return Tracer(component).Start(ctx, name)
}

// spanHandler copies the active span's trace/span ID onto every log record,
// the same technique as the teacher's log.Handler in log/log.go.
type spanHandler struct {
	next slog.Handler
}

func (h *spanHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *spanHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		span := trace.SpanFromContext(ctx)
		if span != nil && span.SpanContext().IsValid() {
			r.AddAttrs(
				slog.String("trace_id", span.SpanContext().TraceID().String()),
				slog.String("span_id", span.SpanContext().SpanID().String()),
			)
		}
	}
	return h.next.Handle(ctx, r)
}

func (h *spanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &spanHandler{next: h.next.WithAttrs(attrs)}
}

func (h *spanHandler) WithGroup(name string) slog.Handler {
	return &spanHandler{next: h.next.WithGroup(name)}
}

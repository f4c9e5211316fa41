package telemetry

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/kiln/internal/core/ports"
)

// OTelTracer implements ports.Tracer using OpenTelemetry.
type OTelTracer struct {
	tracer trace.Tracer
	clock  clockwork.Clock

	mu       sync.RWMutex
	renderer ports.Renderer
}

// NewOTelTracer creates a tracer with the given instrumentation name on the global provider.
func NewOTelTracer(name string) *OTelTracer {
	return &OTelTracer{
		tracer: otel.Tracer(name),
		clock:  clockwork.NewRealClock(),
	}
}

// WithRenderer streams span output to r.
func (t *OTelTracer) WithRenderer(r ports.Renderer) *OTelTracer {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.renderer = r
	return t
}

// WithClock replaces the clock that paces output batching.
func (t *OTelTracer) WithClock(c clockwork.Clock) *OTelTracer {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clock = c
	return t
}

// Start creates a new span.
func (t *OTelTracer) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	attrs := make([]attribute.KeyValue, 0, len(cfg.Attributes))
	for k, v := range cfg.Attributes {
		attrs = append(attrs, toAttribute(k, v))
	}

	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))

	t.mu.RLock()
	renderer, clock := t.renderer, t.clock
	t.mu.RUnlock()

	var batcher *BatchProcessor
	if renderer != nil {
		spanID := span.SpanContext().SpanID().String()
		batcher = NewBatchProcessor(func(data []byte) {
			renderer.OnActionLog(spanID, data)
		}, WithBatchClock(clock))
	}

	return ctx, &OTelSpan{span: span, batcher: batcher}
}

// EmitPlan records the planned actions on the current span and announces them to the renderer.
func (t *OTelTracer) EmitPlan(ctx context.Context, actionNames []string) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent("plan_emitted", trace.WithAttributes(
			attribute.StringSlice("actions", actionNames),
		))
	}

	t.mu.RLock()
	renderer := t.renderer
	t.mu.RUnlock()

	if renderer != nil {
		renderer.OnPlanEmit(actionNames)
	}
}

// OTelSpan implements ports.Span using OpenTelemetry.
type OTelSpan struct {
	span    trace.Span
	batcher *BatchProcessor
}

// End flushes buffered output and completes the span.
func (s *OTelSpan) End() {
	if s.batcher != nil {
		_ = s.batcher.Close()
		s.span.SetAttributes(attribute.Int64(AttrOutputBytes, s.batcher.Written()))
	}
	s.span.End()
}

// RecordError records err and marks the span as failed.
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	s.span.SetAttributes(toAttribute(key, value))
}

// Write sends output to the renderer, or records it as a span event when there is none.
func (s *OTelSpan) Write(p []byte) (int, error) {
	if s.batcher != nil {
		return s.batcher.Write(p)
	}
	s.span.AddEvent("log", trace.WithAttributes(attribute.String("message", string(p))))
	return len(p), nil
}

package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/kiln/internal/core/ports"
)

// Bridge is an sdktrace.SpanProcessor that reports action spans to a Renderer.
// Spans without the mnemonic attribute, such as spawn spans, are ignored.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a Bridge for renderer.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

// OnStart is called when a span starts.
func (b *Bridge) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil || !isActionSpan(s.Attributes()) {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	b.renderer.OnActionStart(sc.SpanID().String(), s.Name(), s.StartTime())
}

// OnEnd is called when a span ends.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil || !isActionSpan(s.Attributes()) {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	var err error
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "action failed"
		}
		err = errors.New(desc)
	}

	cached := false
	for _, kv := range s.Attributes() {
		if string(kv.Key) == AttrCached {
			cached = kv.Value.AsBool()
		}
	}

	b.renderer.OnActionComplete(sc.SpanID().String(), s.EndTime(), cached, err)
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown flushes the renderer.
func (b *Bridge) Shutdown(_ context.Context) error {
	if b.renderer == nil {
		return nil
	}
	return b.renderer.Stop()
}

func isActionSpan(attrs []attribute.KeyValue) bool {
	for _, kv := range attrs {
		if string(kv.Key) == AttrMnemonic {
			return true
		}
	}
	return false
}

// InstallProvider registers a global TracerProvider that feeds the given processors.
func InstallProvider(processors ...sdktrace.SpanProcessor) *sdktrace.TracerProvider {
	opts := make([]sdktrace.TracerProviderOption, 0, len(processors))
	for _, p := range processors {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return tp
}

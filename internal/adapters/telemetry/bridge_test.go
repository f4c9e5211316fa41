package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestBridge_ReportsActionSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	tp := trace.NewTracerProvider(trace.WithSpanProcessor(telemetry.NewBridge(renderer)))
	tracer := tp.Tracer("test")

	var startID string
	gomock.InOrder(
		renderer.EXPECT().OnActionStart(gomock.Any(), "Copying a to b", gomock.Any()).
			Do(func(id, _ string, _ any) { startID = id }),
		renderer.EXPECT().OnActionComplete(gomock.Any(), gomock.Any(), true, nil).
			Do(func(id string, _ any, _ bool, _ error) { require.Equal(t, startID, id) }),
	)

	_, span := tracer.Start(context.Background(), "Copying a to b",
		oteltrace.WithAttributes(attribute.String(telemetry.AttrMnemonic, "Copy")))
	span.SetAttributes(attribute.Bool(telemetry.AttrCached, true))
	span.End()
}

func TestBridge_IgnoresSpansWithoutMnemonic(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	tp := trace.NewTracerProvider(trace.WithSpanProcessor(telemetry.NewBridge(renderer)))
	_, span := tp.Tracer("test").Start(context.Background(), "spawn")
	span.End()
}

func TestBridge_ReportsFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	tp := trace.NewTracerProvider(trace.WithSpanProcessor(telemetry.NewBridge(renderer)))

	renderer.EXPECT().OnActionStart(gomock.Any(), "Spawn out", gomock.Any())
	renderer.EXPECT().OnActionComplete(gomock.Any(), gomock.Any(), false, gomock.Any()).
		Do(func(_ string, _ any, _ bool, err error) {
			require.EqualError(t, err, "exit status 2")
		})

	_, span := tp.Tracer("test").Start(context.Background(), "Spawn out",
		oteltrace.WithAttributes(attribute.String(telemetry.AttrMnemonic, "Spawn")))
	span.RecordError(errors.New("exit status 2"))
	span.SetStatus(codes.Error, "exit status 2")
	span.End()
}

func TestBridge_ShutdownStopsRenderer(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().Stop().Return(nil)

	tp := trace.NewTracerProvider(trace.WithSpanProcessor(telemetry.NewBridge(renderer)))
	require.NoError(t, tp.Shutdown(context.Background()))
}

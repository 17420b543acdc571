package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/123shiju/ecommerce-client/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zaptest"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:     false,
		ServiceName: "storefront-test",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("x"))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProviderWithExporter(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	tp, err := telemetry.NewTracerProviderWithExporter(telemetry.Config{
		ServiceName:   "storefront-test",
		SamplingRatio: 1,
		Environment:   "test",
		BackendURL:    "http://shop.internal:5000",
	}, exporter, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.True(t, tp.IsEnabled())

	ctx := context.Background()
	_, span := telemetry.StartServiceSpan(ctx, "checkout", "place_order", telemetry.AttrOrderID, "ORD123")
	span.End()
	require.NoError(t, tp.ForceFlush(ctx))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "checkout.place_order", spans[0].Name)

	res := map[string]string{}
	for _, kv := range spans[0].Resource.Attributes() {
		res[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "storefront-test", res["service.name"])
	assert.Equal(t, "test", res["deployment.environment.name"])
	assert.Equal(t, "shop.internal:5000", res[telemetry.AttrBackendHost])

	require.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProviderWithExporter_ZeroRatioSamplesNothing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	tp, err := telemetry.NewTracerProviderWithExporter(telemetry.Config{ServiceName: "storefront-test"}, exporter, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx := context.Background()
	_, span := telemetry.StartServiceSpan(ctx, "cart", "load")
	span.End()
	require.NoError(t, tp.ForceFlush(ctx))
	assert.Empty(t, exporter.GetSpans())
	require.NoError(t, tp.Shutdown(ctx))
}

func TestStartServiceSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := telemetry.StartServiceSpan(context.Background(), "cart", "update_quantity",
		telemetry.AttrProductID, "p1",
		telemetry.AttrDirection, "increase",
		"attempt", 2,
	)
	telemetry.RecordError(span, errors.New("backend rejected update"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "cart.update_quantity", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)

	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "p1", attrs[telemetry.AttrProductID])
	assert.Equal(t, "increase", attrs[telemetry.AttrDirection])
	assert.Equal(t, "2", attrs["attempt"])
}

func TestRecordError_NilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		telemetry.RecordError(nil, errors.New("x"))
		telemetry.SetAttributes(nil, "k", "v")
	})
}

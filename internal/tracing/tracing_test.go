package tracing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"
)

func restoreGlobals(t *testing.T) {
	t.Helper()
	prop := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTextMapPropagator(prop)
		otel.SetTracerProvider(noop.NewTracerProvider())
	})
}

func TestNewProvider_Disabled(t *testing.T) {
	restoreGlobals(t)

	tp, err := NewProvider(Config{Enabled: false}, nil)
	require.NoError(t, err)
	assert.Nil(t, tp)
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "baggage")
}

func TestNewProvider_HTTPExporter(t *testing.T) {
	restoreGlobals(t)

	tp, err := NewProvider(Config{
		Enabled:          true,
		ServiceName:      "nudgepay-dashboard",
		Environment:      "test",
		ExporterEndpoint: "127.0.0.1:4318",
		ExporterProtocol: "http",
		SamplingRatio:    1,
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, tp)
	assert.Same(t, tp, otel.GetTracerProvider())

	_, span := otel.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	assert.True(t, span.IsRecording())
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = tp.Shutdown(ctx)
}

func TestNewExporter_UnsupportedProtocol(t *testing.T) {
	_, err := newExporter("carrier-pigeon", "")
	assert.ErrorContains(t, err, "unsupported OTLP protocol")
}

func TestClampRatio(t *testing.T) {
	assert.Equal(t, 0.1, clampRatio(0))
	assert.Equal(t, 0.1, clampRatio(-2))
	assert.Equal(t, 0.5, clampRatio(0.5))
	assert.Equal(t, 1.0, clampRatio(3))
}

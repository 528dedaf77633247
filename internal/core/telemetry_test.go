// AngelaMos | 2026
// telemetry_test.go

package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/carterperez-dev/souk-api/internal/config"
)

func telemetryConfig() *config.Config {
	return &config.Config{
		App:   config.AppConfig{Version: "1.2.0", Environment: "staging"},
		Store: config.StoreConfig{Driver: config.StoreMemory},
		Token: config.TokenConfig{Format: "signed"},
		Shop:  config.ShopConfig{Currency: "SAR"},
		Otel:  config.OtelConfig{ServiceName: "souk-api"},
	}
}

func TestNewTelemetryDisabled(t *testing.T) {
	tel, err := NewTelemetry(context.Background(), telemetryConfig())
	require.NoError(t, err)
	assert.False(t, tel.Enabled())
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestTelemetryResourceDescribesDeployment(t *testing.T) {
	res, err := newResource(context.Background(), telemetryConfig())
	require.NoError(t, err)

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range res.Attributes() {
		attrs[kv.Key] = kv.Value
	}

	assert.Equal(t, "souk-api", attrs["service.name"].AsString())
	assert.Equal(t, "1.2.0", attrs["service.version"].AsString())
	assert.Equal(t, "staging", attrs["deployment.environment"].AsString())
	assert.Equal(t, "memory", attrs["souk.store.driver"].AsString())
	assert.Equal(t, "signed", attrs["souk.token.format"].AsString())
	assert.Equal(t, "SAR", attrs["souk.shop.currency"].AsString())
	assert.False(t, attrs["souk.redis.enabled"].AsBool())
}

func TestSampleRate(t *testing.T) {
	assert.InDelta(t, defaultSampleRate, sampleRate(0), 1e-9)
	assert.InDelta(t, defaultSampleRate, sampleRate(1.5), 1e-9)
	assert.InDelta(t, 0.5, sampleRate(0.5), 1e-9)
}

func TestTraceIDFromContext(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) }) //nolint:errcheck // test cleanup

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	assert.Equal(t, span.SpanContext().TraceID().String(), TraceIDFromContext(ctx))
}

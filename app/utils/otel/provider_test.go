package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/cattyman919/contact/app/config"
)

func TestConfigFrom(t *testing.T) {
	t.Setenv("GO_ENV", "")

	cfg := ConfigFrom(&config.Config{
		OTelEnabled:     true,
		OTelServiceName: "contact-service",
		OTelEndpoint:    "http://collector:4318",
		OTelSampleRatio: 0.25,
	})

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "contact-service", cfg.ServiceName)
	assert.Equal(t, "http://collector:4318", cfg.OTLPEndpoint)
	assert.Equal(t, 0.25, cfg.SampleRatio)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ServiceVersion, cfg.ServiceVersion)
}

func TestInitProvider_Disabled(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown, err := InitProvider(context.Background(), Config{Enabled: false})

	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
	assert.Equal(t, before, otel.GetTracerProvider(), "disabled telemetry must not replace the global provider")
}

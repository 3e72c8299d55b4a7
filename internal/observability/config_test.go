package observability

import (
	"testing"

	"github.com/smallbiznis/clinicdesk/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(config.Config{Environment: "test", OtelSamplingRatio: 4})
	assert.Equal(t, "clinicdesk", cfg.ServiceName)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "grpc", cfg.OtelExporterProtocol)
	assert.Equal(t, 0.1, cfg.OtelSamplingRatio)
	assert.True(t, cfg.Debug())

	cfg = LoadConfig(config.Config{AppName: "desk", Environment: "production", LogLevel: "warn", OtelSamplingRatio: 0.5})
	assert.Equal(t, "desk", cfg.ServiceName)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 0.5, cfg.OtelSamplingRatio)
	assert.False(t, cfg.Debug())
}

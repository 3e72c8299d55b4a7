package observability

import (
	"strings"

	"github.com/smallbiznis/clinicdesk/internal/config"
)

// Config is the observability view of the application config.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string

	OtelEnabled          bool
	OtelExporterEndpoint string
	OtelExporterProtocol string
	OtelSamplingRatio    float64
}

// LoadConfig derives logging and telemetry settings. Log format defaults to
// console in dev and test environments and json elsewhere.
func LoadConfig(cfg config.Config) Config {
	format := cfg.LogFormat
	if format == "" {
		format = "json"
		if isDevEnv(cfg.Environment) {
			format = "console"
		}
	}
	ratio := cfg.OtelSamplingRatio
	if ratio < 0 || ratio > 1 {
		ratio = 0.1
	}

	return Config{
		ServiceName:          defaultString(cfg.AppName, "clinicdesk"),
		Environment:          strings.TrimSpace(cfg.Environment),
		Version:              strings.TrimSpace(cfg.AppVersion),
		LogLevel:             defaultString(cfg.LogLevel, "info"),
		LogFormat:            format,
		OtelEnabled:          cfg.OtelEnabled,
		OtelExporterEndpoint: cfg.OTLPEndpoint,
		OtelExporterProtocol: defaultString(cfg.OTLPProtocol, "grpc"),
		OtelSamplingRatio:    ratio,
	}
}

// Debug is true for debug log level or a dev/test environment.
func (c Config) Debug() bool {
	return c.LogLevel == "debug" || isDevEnv(c.Environment)
}

func isDevEnv(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}

func defaultString(value, def string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return def
}

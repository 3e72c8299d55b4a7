package observability

import (
	"github.com/smallbiznis/clinicdesk/internal/observability/logger"
	"github.com/smallbiznis/clinicdesk/internal/observability/metrics"
	"github.com/smallbiznis/clinicdesk/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module wires logging first so the tracing and metrics providers can log
// exporter failures through it.
var Module = fx.Module("observability",
	fx.Provide(LoadConfig),
	fx.Module("observability.logger",
		fx.Provide(func(cfg Config) logger.Config {
			debug := cfg.Debug()
			return logger.Config{
				ServiceName:         cfg.ServiceName,
				Environment:         cfg.Environment,
				Version:             cfg.Version,
				Level:               cfg.LogLevel,
				Format:              cfg.LogFormat,
				Debug:               debug,
				IncludeCaller:       true,
				IncludeStackOnError: debug,
			}
		}),
		fx.Provide(logger.New),
	),
	fx.Module("observability.tracing",
		fx.Provide(func(cfg Config) tracing.Config {
			return tracing.Config{
				Enabled:          cfg.OtelEnabled,
				ServiceName:      cfg.ServiceName,
				ServiceVersion:   cfg.Version,
				Environment:      cfg.Environment,
				ExporterEndpoint: cfg.OtelExporterEndpoint,
				ExporterProtocol: cfg.OtelExporterProtocol,
				SamplingRatio:    cfg.OtelSamplingRatio,
			}
		}),
		fx.Provide(tracing.NewProvider),
		// Nothing else depends on the provider, but it must install the global tracer.
		fx.Invoke(func(tp *sdktrace.TracerProvider, log *zap.Logger) {
			log.Debug("tracer provider ready")
		}),
	),
	fx.Module("observability.metrics",
		fx.Provide(func(cfg Config) metrics.Config {
			return metrics.Config{
				Enabled:          cfg.OtelEnabled,
				ExporterEndpoint: cfg.OtelExporterEndpoint,
				ExporterProtocol: cfg.OtelExporterProtocol,
				ServiceName:      cfg.ServiceName,
				Environment:      cfg.Environment,
			}
		}),
		fx.Provide(
			metrics.NewProvider,
			metrics.New,
			metrics.NewHTTPMetrics,
		),
	),
)

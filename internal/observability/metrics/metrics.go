package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	billsCreated     metric.Int64Counter
	paymentsRecorded metric.Int64Counter
	paymentAmount    metric.Int64Counter
	ledgerEntries    metric.Int64Counter
	postsPublished   metric.Int64Counter
	stockAdjustments metric.Int64Counter
	loginDenied      metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(15*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				log.Info("shutting down meter provider")
				return provider.Shutdown(ctx)
			},
		})
	}

	log.Info("metrics initialized",
		zap.String("endpoint", cfg.ExporterEndpoint),
		zap.String("protocol", cfg.ExporterProtocol),
	)

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "clinicdesk"
	}
	meter := provider.Meter(name)

	m := &Metrics{}
	counters := []struct {
		target *metric.Int64Counter
		name   string
		desc   string
	}{
		{&m.billsCreated, "clinicdesk_bills_created_total", "Bills created."},
		{&m.paymentsRecorded, "clinicdesk_payments_recorded_total", "Payments applied to bills."},
		{&m.paymentAmount, "clinicdesk_payment_amount_minor_total", "Sum of applied payments in minor units."},
		{&m.ledgerEntries, "clinicdesk_ledger_entries_total", "Patient ledger entries appended."},
		{&m.postsPublished, "clinicdesk_social_posts_published_total", "Social post publish attempts."},
		{&m.stockAdjustments, "clinicdesk_stock_adjustments_total", "Inventory stock adjustments."},
		{&m.loginDenied, "clinicdesk_login_denied_total", "Rejected or throttled logins."},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, err
		}
		*c.target = counter
	}

	return m, nil
}

func (m *Metrics) RecordBillCreated(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.billsCreated.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("status", status))...))
}

// RecordPayment counts a payment and adds its amount.
func (m *Metrics) RecordPayment(ctx context.Context, method string, amount int64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(FilterAttributes(attribute.String("method", strings.TrimSpace(method)))...)
	m.paymentsRecorded.Add(ctx, 1, attrs)
	if amount > 0 {
		m.paymentAmount.Add(ctx, amount, attrs)
	}
}

// RecordLedgerEntry increments ledger entry counts.
func (m *Metrics) RecordLedgerEntry(ctx context.Context, entryType string) {
	if m == nil {
		return
	}
	m.ledgerEntries.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("entry_type", strings.TrimSpace(entryType)))...))
}

func (m *Metrics) RecordPostPublished(ctx context.Context, platform string, ok bool) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.postsPublished.Add(ctx, 1, metric.WithAttributes(FilterAttributes(
		attribute.String("platform", strings.TrimSpace(platform)),
		attribute.String("result", result),
	)...))
}

func (m *Metrics) RecordStockAdjustment(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.stockAdjustments.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("kind", kind))...))
}

func (m *Metrics) RecordLoginDenied(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.loginDenied.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("reason", reason))...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"status":     {},
	"method":     {},
	"entry_type": {},
	"platform":   {},
	"result":     {},
	"kind":       {},
	"reason":     {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}

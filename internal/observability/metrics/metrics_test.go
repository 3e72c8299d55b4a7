package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsHighCardinalityLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("method", "CASH"),
		attribute.String("patient_id", "456"),
		attribute.String("entry_type", "PAYMENT"),
	)
	require.Len(t, attrs, 2)
	assert.Equal(t, attribute.Key("method"), attrs[0].Key)
	assert.Equal(t, attribute.Key("entry_type"), attrs[1].Key)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordPayment(context.Background(), "CASH", 100)
		m.RecordLedgerEntry(context.Background(), "PAYMENT")
		m.RecordBillCreated(context.Background(), "DRAFT")
	})
}

func TestNewWithNoopProvider(t *testing.T) {
	m, err := New(Config{ServiceName: "clinicdesk"}, noop.NewMeterProvider())
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		m.RecordPayment(context.Background(), "UPI", 2500)
		m.RecordPostPublished(context.Background(), "instagram", false)
	})
}

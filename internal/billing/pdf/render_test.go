package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/clinicdesk/internal/billing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "0.00", Money(0))
	assert.Equal(t, "12.05", Money(1205))
	assert.Equal(t, "-3.50", Money(-350))
}

func TestRenderProducesPDF(t *testing.T) {
	issued := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	bill := &domain.Bill{
		BillNumber: "INV-202504-0001",
		Status:     domain.StatusPartial,
		Subtotal:   10000,
		Tax:        1800,
		TaxRate:    decimal.NewFromInt(18),
		Total:      11800,
		Paid:       5000,
		Balance:    6800,
		Currency:   "INR",
		IssueDate:  issued,
		DueDate:    issued.AddDate(0, 0, 30),
		Items: []domain.BillItem{
			{Description: "Consultation", Quantity: 1, UnitPrice: 10000, LineTotal: 10000},
		},
		Payments: []domain.Payment{
			{Amount: 5000, Method: domain.MethodUPI, PaidAt: issued},
		},
	}

	out, err := Render(Document{ClinicName: "Sunrise Clinic", PatientName: "Meera Iyer", Bill: bill})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = Render(Document{})
	assert.Error(t, err)
}

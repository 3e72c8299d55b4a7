package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/smallbiznis/clinicdesk/internal/billing/domain"
	"github.com/smallbiznis/clinicdesk/internal/config"
	ledgerdomain "github.com/smallbiznis/clinicdesk/internal/ledger/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBillingService struct {
	billingdomain.Service

	created     billingdomain.CreateBillRequest
	listed      billingdomain.ListBillRequest
	payment     billingdomain.RecordPaymentRequest
	paymentErr  error
	overdueAt   time.Time
	overdueRuns int
	updates     int
}

func (f *fakeBillingService) Update(ctx context.Context, id string, req billingdomain.UpdateBillRequest) (*billingdomain.Bill, error) {
	f.updates++
	return &billingdomain.Bill{ID: snowflake.ID(500), Status: billingdomain.StatusDraft}, nil
}

func (f *fakeBillingService) Create(ctx context.Context, req billingdomain.CreateBillRequest) (*billingdomain.Bill, error) {
	f.created = req
	return &billingdomain.Bill{
		ID:         snowflake.ID(500),
		PatientID:  snowflake.ID(42),
		BillNumber: "BILL-000001",
		Status:     billingdomain.StatusDraft,
		Total:      1000,
		Balance:    1000,
	}, nil
}

func (f *fakeBillingService) List(ctx context.Context, req billingdomain.ListBillRequest) (billingdomain.ListBillResponse, error) {
	f.listed = req
	return billingdomain.ListBillResponse{Bills: []*billingdomain.Bill{}}, nil
}

func (f *fakeBillingService) RecordPayment(ctx context.Context, id string, req billingdomain.RecordPaymentRequest) (*billingdomain.PaymentResult, error) {
	f.payment = req
	if f.paymentErr != nil {
		return nil, f.paymentErr
	}
	return &billingdomain.PaymentResult{
		Bill:        &billingdomain.Bill{ID: snowflake.ID(500), Status: billingdomain.StatusPaid, Total: 1000, Paid: 1000},
		Payment:     &billingdomain.Payment{ID: snowflake.ID(600), Amount: req.Amount, Method: billingdomain.MethodCash},
		LedgerEntry: &ledgerdomain.Entry{ID: snowflake.ID(700), Credit: req.Amount},
	}, nil
}

func (f *fakeBillingService) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	f.overdueAt = now
	f.overdueRuns++
	return 3, nil
}

func newBillingTestServer(t *testing.T) (*Server, *fakeBillingService) {
	t.Helper()
	s := newTestServer(t, config.Config{CronSecret: "cron"})
	fake := &fakeBillingService{}
	s.billingSvc = fake

	api := s.engine.Group("/api", s.AuthRequired())
	api.GET("/bills", s.ListBills)
	api.POST("/bills", s.CreateBill)
	api.PUT("/bills/:id", s.UpdateBill)
	api.POST("/bills/:id/payments", s.RecordBillPayment)
	s.registerCronRoutes()
	return s, fake
}

func TestCreateBillHandler(t *testing.T) {
	s, fake := newBillingTestServer(t)

	w := doJSON(t, s.engine, http.MethodPost, "/api/bills", map[string]any{
		"patient_id": "42",
		"items": []map[string]any{
			{"description": "Consultation", "quantity": 1, "unit_price": 1000},
		},
		"tax_rate": "5",
		"due_date": "2026-04-01",
	}, sessionCookie())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data billingdomain.Bill `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "BILL-000001", resp.Data.BillNumber)

	assert.Equal(t, "42", fake.created.PatientID)
	require.Len(t, fake.created.Items, 1)
	assert.Equal(t, int64(1000), fake.created.Items[0].UnitPrice)
	require.NotNil(t, fake.created.TaxRate)
	assert.Equal(t, "5", fake.created.TaxRate.String())
	require.NotNil(t, fake.created.DueDate)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), *fake.created.DueDate)
}

func TestCreateBillHandlerValidation(t *testing.T) {
	s, _ := newBillingTestServer(t)

	w := doJSON(t, s.engine, http.MethodPost, "/api/bills", map[string]any{
		"patient_id": "42",
		"items":      []map[string]any{{"description": "Consultation", "quantity": 0, "unit_price": 1000}},
	}, sessionCookie())
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "validation_error", resp.Type)
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, "quantity", resp.Errors[0].Field)

	w = doJSON(t, s.engine, http.MethodPost, "/api/bills", map[string]any{
		"patient_id": "42",
		"items":      []map[string]any{{"description": "Consultation", "quantity": 1}},
		"due_date":   "next week",
	}, sessionCookie())
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_due_date", decodeError(t, w).Error)
}

func TestUpdateBillHandlerRequiresItems(t *testing.T) {
	s, fake := newBillingTestServer(t)

	for _, body := range []map[string]any{
		{"notes": "follow-up moved"},
		{"items": []map[string]any{}, "due_date": "2026-05-01"},
	} {
		w := doJSON(t, s.engine, http.MethodPut, "/api/bills/500", body, sessionCookie())
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		resp := decodeError(t, w)
		assert.Equal(t, "validation_error", resp.Type)
		require.NotEmpty(t, resp.Errors)
		assert.Equal(t, "items", resp.Errors[0].Field)
	}
	assert.Zero(t, fake.updates)

	w := doJSON(t, s.engine, http.MethodPut, "/api/bills/500", map[string]any{
		"items": []map[string]any{{"description": "Consultation", "quantity": 1, "unit_price": 1000}},
		"notes": "follow-up moved",
	}, sessionCookie())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, fake.updates)
}

func TestListBillsStatusFilter(t *testing.T) {
	s, fake := newBillingTestServer(t)

	w := doJSON(t, s.engine, http.MethodGet, "/api/bills?status=partial&from=2026-03-01", nil, sessionCookie())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "partial", fake.listed.Status)
	require.NotNil(t, fake.listed.From)

	w = doJSON(t, s.engine, http.MethodGet, "/api/bills?status=SETTLED", nil, sessionCookie())
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_status", decodeError(t, w).Error)
}

func TestRecordPaymentHandler(t *testing.T) {
	s, fake := newBillingTestServer(t)

	w := doJSON(t, s.engine, http.MethodPost, "/api/bills/500/payments", map[string]any{
		"amount": 1000,
		"method": "cash",
	}, sessionCookie())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, int64(1000), fake.payment.Amount)

	w = doJSON(t, s.engine, http.MethodPost, "/api/bills/500/payments", map[string]any{
		"amount": 1000,
		"method": "CHEQUE",
	}, sessionCookie())
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_method", decodeError(t, w).Error)

	fake.paymentErr = billingdomain.ErrPaymentExceedsBalance
	w = doJSON(t, s.engine, http.MethodPost, "/api/bills/500/payments", map[string]any{"amount": 5000}, sessionCookie())
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "payment_exceeds_balance", resp.Error)
	assert.Equal(t, "business_rule", resp.Type)
}

func TestCronMarkOverdue(t *testing.T) {
	s, fake := newBillingTestServer(t)

	w := doJSON(t, s.engine, http.MethodPost, "/cron/bills/overdue", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, fake.overdueRuns)

	req := doCron(t, s, "/cron/bills/overdue", "cron")
	require.Equal(t, http.StatusOK, req.Code, req.Body.String())
	assert.Equal(t, 1, fake.overdueRuns)
	assert.Equal(t, s.clock.Now(), fake.overdueAt)
	assert.JSONEq(t, `{"data":{"updated":3}}`, req.Body.String())
}

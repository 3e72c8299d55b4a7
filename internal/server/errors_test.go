package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	appointmentdomain "github.com/smallbiznis/clinicdesk/internal/appointment/domain"
	authdomain "github.com/smallbiznis/clinicdesk/internal/auth/domain"
	"github.com/smallbiznis/clinicdesk/internal/authorization"
	billingdomain "github.com/smallbiznis/clinicdesk/internal/billing/domain"
	dietplandomain "github.com/smallbiznis/clinicdesk/internal/dietplan/domain"
	inventorydomain "github.com/smallbiznis/clinicdesk/internal/inventory/domain"
	patientdomain "github.com/smallbiznis/clinicdesk/internal/patient/domain"
	"github.com/smallbiznis/clinicdesk/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		err      error
		status   int
		code     string
		respType string
	}{
		{err: authdomain.ErrInvalidCredentials, status: http.StatusUnauthorized, code: "unauthorized", respType: "unauthorized"},
		{err: billingdomain.ErrInvalidClinic, status: http.StatusUnauthorized, code: "unauthorized", respType: "unauthorized"},
		{err: authorization.ErrForbidden, status: http.StatusForbidden, code: "forbidden", respType: "forbidden"},
		{err: ErrTooManyRequests, status: http.StatusTooManyRequests, code: "too many requests", respType: "rate_limited"},
		{err: patientdomain.ErrNotFound, status: http.StatusNotFound, code: "patient_not_found", respType: "not_found"},
		{err: gorm.ErrRecordNotFound, status: http.StatusNotFound, code: "not_found", respType: "not_found"},
		{err: appointmentdomain.ErrConflict, status: http.StatusConflict, code: "appointment_conflict", respType: "conflict"},
		{err: inventorydomain.ErrDuplicateSKU, status: http.StatusConflict, code: "duplicate_sku", respType: "conflict"},
		{err: ratelimit.ErrJobRunning, status: http.StatusConflict, code: "job_already_running", respType: "conflict"},
		{err: billingdomain.ErrPaymentExceedsBalance, status: http.StatusBadRequest, code: "payment_exceeds_balance", respType: "business_rule"},
		{err: billingdomain.ErrBillLocked, status: http.StatusBadRequest, code: "bill_locked", respType: "business_rule"},
		{err: billingdomain.ErrInvalidAmount, status: http.StatusBadRequest, code: "invalid_amount", respType: "validation_error"},
		{err: billingdomain.ErrEmptyItems, status: http.StatusBadRequest, code: "empty_items", respType: "validation_error"},
		{err: errors.New("boom"), status: http.StatusInternalServerError, code: "internal server error", respType: "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			status, resp := mapError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, resp.Error)
			assert.Equal(t, tc.respType, resp.Type)
		})
	}
}

func TestMapErrorUnwrapsAndNamesField(t *testing.T) {
	status, resp := mapError(fmt.Errorf("create bill: %w", billingdomain.ErrInvalidDueDate))
	assert.Equal(t, http.StatusBadRequest, status)
	if assert.Len(t, resp.Errors, 1) {
		assert.Equal(t, "due_date", resp.Errors[0].Field)
		assert.Equal(t, "invalid_due_date", resp.Errors[0].Code)
	}

	status, resp = mapError(newValidationError("patient_id", "invalid_patient_id", "invalid patient_id"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_patient_id", resp.Error)
	assert.Equal(t, "validation_error", resp.Type)
}

func TestMapErrorCodeComesFromSentinel(t *testing.T) {
	_, renderErr := dietplandomain.RenderInstructions("{{ .Nope | bogus }}", dietplandomain.RenderData{})
	status, resp := mapError(renderErr)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_template", resp.Error)
	assert.Equal(t, "validation_error", resp.Type)
	if assert.Len(t, resp.Errors, 1) {
		assert.Equal(t, "template", resp.Errors[0].Field)
		assert.Equal(t, "invalid_template", resp.Errors[0].Code)
	}

	status, resp = mapError(fmt.Errorf("load bill 42: %w", billingdomain.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, billingdomain.ErrNotFound.Error(), resp.Error)

	status, resp = mapError(fmt.Errorf("reserve: %w", inventorydomain.ErrDuplicateSKU))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "duplicate_sku", resp.Error)

	status, resp = mapError(fmt.Errorf("pay: %w", billingdomain.ErrBillLocked))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "bill_locked", resp.Error)
	assert.Equal(t, "business_rule", resp.Type)
}

package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	ledgerdomain "github.com/smallbiznis/clinicdesk/internal/ledger/domain"
	"github.com/smallbiznis/clinicdesk/pkg/db/pagination"
)

type CreateBillRequest struct {
	PatientID       string
	Items           []ItemInput
	DiscountAmount  int64
	DiscountPercent *decimal.Decimal
	TaxRate         *decimal.Decimal
	IssueDate       *time.Time
	DueDate         *time.Time
	Notes           string
	// Issue creates the bill as PENDING instead of DRAFT.
	Issue bool
}

type UpdateBillRequest struct {
	Items           []ItemInput
	DiscountAmount  *int64
	DiscountPercent *decimal.Decimal
	TaxRate         *decimal.Decimal
	DueDate         *time.Time
	Notes           *string
}

type ListBillRequest struct {
	pagination.Pagination
	PatientID string
	Status    string
	From      *time.Time
	To        *time.Time
}

type ListBillResponse struct {
	pagination.PageInfo
	Bills []*Bill `json:"bills"`
}

type RecordPaymentRequest struct {
	Amount    int64
	Method    string
	Reference string
	Notes     string
	PaidAt    *time.Time
}

type PaymentResult struct {
	Bill        *Bill               `json:"bill"`
	Payment     *Payment            `json:"payment"`
	LedgerEntry *ledgerdomain.Entry `json:"ledger_entry"`
}

type Service interface {
	Create(ctx context.Context, req CreateBillRequest) (*Bill, error)
	Get(ctx context.Context, id string) (*Bill, error)
	List(ctx context.Context, req ListBillRequest) (ListBillResponse, error)
	Update(ctx context.Context, id string, req UpdateBillRequest) (*Bill, error)
	RecordPayment(ctx context.Context, id string, req RecordPaymentRequest) (*PaymentResult, error)
	Cancel(ctx context.Context, id string, reason string) (*Bill, error)
	UpdateStatus(ctx context.Context, id string, status string) (*Bill, error)
	// MarkOverdue flips PENDING and PARTIAL bills past their due date, for every clinic.
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
	ListPayments(ctx context.Context, billID string) ([]*Payment, error)
	ListPatientPayments(ctx context.Context, patientID string) ([]*Payment, error)
	RenderPDF(ctx context.Context, id string) ([]byte, error)
}

var (
	ErrInvalidClinic           = errors.New("invalid_clinic")
	ErrInvalidID               = errors.New("invalid_bill_id")
	ErrInvalidPatient          = errors.New("invalid_patient_id")
	ErrEmptyItems              = errors.New("empty_items")
	ErrInvalidDescription      = errors.New("invalid_description")
	ErrInvalidQuantity         = errors.New("invalid_quantity")
	ErrInvalidUnitPrice        = errors.New("invalid_unit_price")
	ErrInvalidItemTax          = errors.New("invalid_item_tax")
	ErrInvalidItemDiscount     = errors.New("invalid_item_discount")
	ErrInvalidDiscount         = errors.New("invalid_discount")
	ErrInvalidDiscountPercent  = errors.New("invalid_discount_percent")
	ErrInvalidTaxRate          = errors.New("invalid_tax_rate")
	ErrAmountOverflow          = errors.New("amount_overflow")
	ErrInvalidDueDate          = errors.New("invalid_due_date")
	ErrInvalidStatus           = errors.New("invalid_status")
	ErrInvalidAmount           = errors.New("invalid_amount")
	ErrInvalidPaymentMethod    = errors.New("invalid_payment_method")
	ErrInvalidTimeRange        = errors.New("invalid_time_range")
	ErrBillLocked              = errors.New("bill_locked")
	ErrBillNotPayable          = errors.New("bill_not_payable")
	ErrPaymentExceedsBalance   = errors.New("payment_exceeds_balance")
	ErrTotalBelowPaid          = errors.New("total_below_paid")
	ErrBillHasPayments         = errors.New("bill_has_payments")
	ErrBillAlreadyCancelled    = errors.New("bill_already_cancelled")
	ErrInvalidStatusTransition = errors.New("invalid_status_transition")
	ErrBillNumberExhausted     = errors.New("bill_number_exhausted")
	ErrNotFound                = errors.New("bill_not_found")
)

package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPending   Status = "PENDING"
	StatusPartial   Status = "PARTIAL"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
	StatusOverdue   Status = "OVERDUE"
)

var Statuses = []Status{StatusDraft, StatusPending, StatusPartial, StatusPaid, StatusCancelled, StatusOverdue}

func ParseStatus(raw string) (Status, bool) {
	for _, s := range Statuses {
		if string(s) == raw {
			return s, true
		}
	}
	return "", false
}

// Locked bills reject item edits.
func (s Status) Locked() bool {
	return s == StatusPaid || s == StatusCancelled
}

func (s Status) Payable() bool {
	return !s.Locked()
}

// CanSetExplicitly reports whether an operator may move a bill from s to
// next without a payment or cancellation. paid is the bill's paid amount.
func (s Status) CanSetExplicitly(next Status, paid int64) bool {
	switch {
	case s == StatusDraft && next == StatusPending:
		return true
	case s == StatusPending && next == StatusDraft:
		return paid == 0
	case (s == StatusPending || s == StatusPartial) && next == StatusOverdue:
		return true
	case s == StatusOverdue && next == StatusPending:
		return paid == 0
	case s == StatusOverdue && next == StatusPartial:
		return paid > 0
	}
	return false
}

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodCard         PaymentMethod = "CARD"
	MethodUPI          PaymentMethod = "UPI"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodInsurance    PaymentMethod = "INSURANCE"
	MethodOther        PaymentMethod = "OTHER"
)

var PaymentMethods = []PaymentMethod{MethodCash, MethodCard, MethodUPI, MethodBankTransfer, MethodInsurance, MethodOther}

func ValidPaymentMethod(raw string) bool {
	for _, m := range PaymentMethods {
		if string(m) == raw {
			return true
		}
	}
	return false
}

// Bill amounts are minor units. total = subtotal + tax - discount and
// balance = total - paid.
type Bill struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id"`
	ClinicID        snowflake.ID    `gorm:"not null;uniqueIndex:ux_bills_clinic_number,priority:1" json:"clinic_id"`
	PatientID       snowflake.ID    `gorm:"not null;index" json:"patient_id"`
	BillNumber      string          `gorm:"not null;uniqueIndex:ux_bills_clinic_number,priority:2" json:"bill_number"`
	Status          Status          `gorm:"type:text;not null;index" json:"status"`
	Subtotal        int64           `gorm:"not null" json:"subtotal"`
	ItemTax         int64           `gorm:"not null" json:"item_tax"`
	ItemDiscount    int64           `gorm:"not null" json:"item_discount"`
	DiscountAmount  int64           `gorm:"not null" json:"discount_amount"`
	DiscountPercent decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"discount_percent"`
	Discount        int64           `gorm:"not null" json:"discount"`
	TaxRate         decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"tax_rate"`
	Tax             int64           `gorm:"not null" json:"tax"`
	Total           int64           `gorm:"not null" json:"total"`
	Paid            int64           `gorm:"not null" json:"paid"`
	Balance         int64           `gorm:"not null" json:"balance"`
	Currency        string          `gorm:"not null" json:"currency"`
	IssueDate       time.Time       `gorm:"type:date;not null" json:"issue_date"`
	DueDate         time.Time       `gorm:"type:date;not null;index" json:"due_date"`
	Notes           string          `json:"notes,omitempty"`
	CreatedBy       *snowflake.ID   `json:"created_by,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`

	Items    []BillItem `gorm:"foreignKey:BillID" json:"items,omitempty"`
	Payments []Payment  `gorm:"foreignKey:BillID" json:"payments,omitempty"`
}

func (Bill) TableName() string { return "bills" }

// BillItem line_total = quantity * unit_price + tax - discount.
type BillItem struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	BillID      snowflake.ID `gorm:"not null;index" json:"bill_id"`
	Description string       `gorm:"not null" json:"description"`
	Quantity    int64        `gorm:"not null" json:"quantity"`
	UnitPrice   int64        `gorm:"not null" json:"unit_price"`
	Tax         int64        `gorm:"not null" json:"tax"`
	Discount    int64        `gorm:"not null" json:"discount"`
	LineTotal   int64        `gorm:"not null" json:"line_total"`
	Position    int          `gorm:"not null" json:"position"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
}

func (BillItem) TableName() string { return "bill_items" }

type Payment struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"id"`
	ClinicID   snowflake.ID  `gorm:"not null;index" json:"clinic_id"`
	BillID     snowflake.ID  `gorm:"not null;index" json:"bill_id"`
	PatientID  snowflake.ID  `gorm:"not null;index" json:"patient_id"`
	Amount     int64         `gorm:"not null" json:"amount"`
	Method     PaymentMethod `gorm:"type:text;not null" json:"method"`
	Reference  string        `json:"reference,omitempty"`
	Notes      string        `json:"notes,omitempty"`
	PaidAt     time.Time     `gorm:"not null;index" json:"paid_at"`
	RecordedBy *snowflake.ID `json:"recorded_by,omitempty"`
	CreatedAt  time.Time     `gorm:"not null" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }

package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// EntryType classifies the financial event behind a ledger entry.
type EntryType string

const (
	EntryTypePayment    EntryType = "PAYMENT"
	EntryTypeAdjustment EntryType = "ADJUSTMENT"
)

// Entry is one append-only row of a patient's running balance. Balance is
// the previous entry's balance plus Debit minus Credit.
type Entry struct {
	ID              snowflake.ID  `gorm:"primaryKey" json:"id"`
	ClinicID        snowflake.ID  `gorm:"not null;index:idx_ledger_patient_chain,priority:1" json:"clinic_id"`
	PatientID       snowflake.ID  `gorm:"not null;index:idx_ledger_patient_chain,priority:2" json:"patient_id"`
	BillID          *snowflake.ID `gorm:"index" json:"bill_id,omitempty"`
	PaymentID       *snowflake.ID `json:"payment_id,omitempty"`
	Type            EntryType     `gorm:"type:text;not null" json:"type"`
	Debit           int64         `gorm:"not null" json:"debit"`
	Credit          int64         `gorm:"not null" json:"credit"`
	Balance         int64         `gorm:"not null" json:"balance"`
	Description     string        `json:"description"`
	TransactionDate time.Time     `gorm:"not null;index:idx_ledger_patient_chain,priority:3" json:"transaction_date"`
	CreatedBy       *snowflake.ID `json:"created_by,omitempty"`
	CreatedAt       time.Time     `gorm:"not null" json:"created_at"`
}

func (Entry) TableName() string { return "ledger_entries" }

// PatientLockKey serializes every financial mutation of one patient.
func PatientLockKey(patientID snowflake.ID) string {
	return "billing:patient:" + patientID.String()
}

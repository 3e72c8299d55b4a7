package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/pkg/db/option"
	"gorm.io/gorm"
)

type Repository interface {
	InsertBill(ctx context.Context, db *gorm.DB, bill *Bill) error
	FindBill(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*Bill, error)
	ListBills(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, opts ...option.QueryOption) ([]*Bill, error)
	UpdateBill(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error
	// LastBillNumber returns the highest bill number of the clinic sharing prefix.
	LastBillNumber(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, prefix string) (string, error)

	InsertItems(ctx context.Context, db *gorm.DB, items []BillItem) error
	DeleteItems(ctx context.Context, db *gorm.DB, billID snowflake.ID) error
	ListItems(ctx context.Context, db *gorm.DB, billID snowflake.ID) ([]BillItem, error)

	// ApplyPayment moves amount from balance to paid only while balance covers it.
	ApplyPayment(ctx context.Context, db *gorm.DB, id snowflake.ID, amount int64, now time.Time) (bool, error)
	InsertPayment(ctx context.Context, db *gorm.DB, payment *Payment) error
	CountPayments(ctx context.Context, db *gorm.DB, billID snowflake.ID) (int64, error)
	ListPaymentsByBill(ctx context.Context, db *gorm.DB, billID snowflake.ID) ([]Payment, error)
	ListPaymentsByPatient(ctx context.Context, db *gorm.DB, clinicID, patientID snowflake.ID) ([]*Payment, error)

	MarkOverdue(ctx context.Context, db *gorm.DB, before time.Time, now time.Time) (int64, error)
}

package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type PatientStats struct {
	Total        int64 `json:"total"`
	NewThisMonth int64 `json:"new_this_month"`
}

type AppointmentStats struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

// AgingBucket sums open balances by days past due. MaxDays nil is open ended.
type AgingBucket struct {
	Label   string `json:"label"`
	MinDays int    `json:"min_days"`
	MaxDays *int   `json:"max_days,omitempty"`
	Count   int64  `json:"count"`
	Amount  int64  `json:"amount"`
}

type Summary struct {
	GeneratedAt        time.Time        `json:"generated_at"`
	Currency           string           `json:"currency"`
	Patients           PatientStats     `json:"patients"`
	AppointmentsToday  AppointmentStats `json:"appointments_today"`
	RevenueThisMonth   int64            `json:"revenue_this_month"`
	OutstandingBalance int64            `json:"outstanding_balance"`
	BillsByStatus      map[string]int64 `json:"bills_by_status"`
	LowStockItems      int64            `json:"low_stock_items"`
	Aging              []AgingBucket    `json:"receivables_aging"`
}

// OpenBill is an unsettled receivable as seen by the aging report.
type OpenBill struct {
	DueDate time.Time `gorm:"column:due_date"`
	Balance int64     `gorm:"column:balance"`
}

type Repository interface {
	CountPatients(ctx context.Context, clinicID snowflake.ID, since *time.Time) (int64, error)
	AppointmentsByStatus(ctx context.Context, clinicID snowflake.ID, from, to time.Time) (map[string]int64, error)
	SumPayments(ctx context.Context, clinicID snowflake.ID, from, to time.Time) (int64, error)
	BillsByStatus(ctx context.Context, clinicID snowflake.ID) (map[string]int64, error)
	OpenBills(ctx context.Context, clinicID snowflake.ID) ([]OpenBill, error)
	CountLowStock(ctx context.Context, clinicID snowflake.ID) (int64, error)
}

type Service interface {
	Summary(ctx context.Context, now time.Time) (Summary, error)
}

var ErrInvalidClinic = errors.New("invalid_clinic")

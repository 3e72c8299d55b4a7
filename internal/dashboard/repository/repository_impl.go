package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/dashboard/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

type statusCount struct {
	Status string `gorm:"column:status"`
	Count  int64  `gorm:"column:count"`
}

func (r *repo) CountPatients(ctx context.Context, clinicID snowflake.ID, since *time.Time) (int64, error) {
	stmt := r.db.WithContext(ctx).Table("patients").Where("clinic_id = ?", clinicID)
	if since != nil {
		stmt = stmt.Where("created_at >= ?", *since)
	}
	var count int64
	err := stmt.Count(&count).Error
	return count, err
}

func (r *repo) AppointmentsByStatus(ctx context.Context, clinicID snowflake.ID, from, to time.Time) (map[string]int64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).Raw(
		`SELECT status, COUNT(*) AS count
		 FROM appointments
		 WHERE clinic_id = ? AND start_at >= ? AND start_at < ?
		 GROUP BY status`,
		clinicID, from, to,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toMap(rows), nil
}

func (r *repo) SumPayments(ctx context.Context, clinicID snowflake.ID, from, to time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount), 0)
		 FROM payments
		 WHERE clinic_id = ? AND paid_at >= ? AND paid_at < ?`,
		clinicID, from, to,
	).Scan(&total).Error
	return total, err
}

func (r *repo) BillsByStatus(ctx context.Context, clinicID snowflake.ID) (map[string]int64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).Raw(
		`SELECT status, COUNT(*) AS count FROM bills WHERE clinic_id = ? GROUP BY status`,
		clinicID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toMap(rows), nil
}

func (r *repo) OpenBills(ctx context.Context, clinicID snowflake.ID) ([]domain.OpenBill, error) {
	var rows []domain.OpenBill
	err := r.db.WithContext(ctx).Raw(
		`SELECT due_date, balance
		 FROM bills
		 WHERE clinic_id = ? AND status NOT IN ('DRAFT', 'CANCELLED') AND balance > 0`,
		clinicID,
	).Scan(&rows).Error
	return rows, err
}

func (r *repo) CountLowStock(ctx context.Context, clinicID snowflake.ID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("inventory_items").
		Where("clinic_id = ? AND quantity <= reorder_level", clinicID).
		Count(&count).Error
	return count, err
}

func toMap(rows []statusCount) map[string]int64 {
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out
}

package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/ledger/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.Entry) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repo) Latest(ctx context.Context, db *gorm.DB, clinicID, patientID snowflake.ID) (*domain.Entry, error) {
	var entry domain.Entry
	err := db.WithContext(ctx).
		Where("clinic_id = ? AND patient_id = ?", clinicID, patientID).
		Order("transaction_date desc, id desc").
		Limit(1).
		Find(&entry).Error
	if err != nil {
		return nil, err
	}
	if entry.ID == 0 {
		return nil, nil
	}
	return &entry, nil
}

func (r *repo) ListAfter(ctx context.Context, db *gorm.DB, clinicID, patientID snowflake.ID, after *time.Time, afterID snowflake.ID, limit int) ([]*domain.Entry, error) {
	stmt := db.WithContext(ctx).Where("clinic_id = ? AND patient_id = ?", clinicID, patientID)
	if after != nil {
		stmt = stmt.Where("(transaction_date > ? OR (transaction_date = ? AND id > ?))", *after, *after, afterID)
	}
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	var entries []*domain.Entry
	err := stmt.Order("transaction_date asc, id asc").Find(&entries).Error
	return entries, err
}

func (r *repo) ListByBill(ctx context.Context, db *gorm.DB, clinicID, billID snowflake.ID) ([]*domain.Entry, error) {
	var entries []*domain.Entry
	err := db.WithContext(ctx).
		Where("clinic_id = ? AND bill_id = ?", clinicID, billID).
		Order("transaction_date asc, id asc").
		Find(&entries).Error
	return entries, err
}

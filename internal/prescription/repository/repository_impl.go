package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/prescription/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rx *domain.Prescription) error {
	return db.WithContext(ctx).Create(rx).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*domain.Prescription, error) {
	var rx domain.Prescription
	err := db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		Limit(1).
		Find(&rx).Error
	if err != nil {
		return nil, err
	}
	if rx.ID == 0 {
		return nil, nil
	}
	return &rx, nil
}

func (r *repo) ListByPatient(ctx context.Context, db *gorm.DB, clinicID, patientID snowflake.ID) ([]*domain.Prescription, error) {
	var items []*domain.Prescription
	err := db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Where("clinic_id = ? AND patient_id = ?", clinicID, patientID).
		Order("issued_at desc, id desc").
		Find(&items).Error
	return items, err
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error {
	return db.WithContext(ctx).Model(&domain.Prescription{}).Where("id = ?", id).Updates(fields).Error
}

func (r *repo) ReplaceItems(ctx context.Context, db *gorm.DB, id snowflake.ID, items []domain.Item) error {
	if err := db.WithContext(ctx).Where("prescription_id = ?", id).Delete(&domain.Item{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	if err := db.WithContext(ctx).Where("prescription_id = ?", id).Delete(&domain.Item{}).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Prescription{}).Error
}

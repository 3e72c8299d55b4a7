package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/patient/domain"
	"github.com/smallbiznis/clinicdesk/pkg/db/option"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, patient *domain.Patient) error {
	return db.WithContext(ctx).Create(patient).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*domain.Patient, error) {
	var patient domain.Patient
	err := db.WithContext(ctx).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		Limit(1).
		Find(&patient).Error
	if err != nil {
		return nil, err
	}
	if patient.ID == 0 {
		return nil, nil
	}
	return &patient, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, opts ...option.QueryOption) ([]*domain.Patient, error) {
	stmt := db.WithContext(ctx).Model(&domain.Patient{}).Where("clinic_id = ?", clinicID)
	for _, opt := range opts {
		stmt = opt.Apply(stmt)
	}
	var patients []*domain.Patient
	if err := stmt.Order("created_at desc, id desc").Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID, fields map[string]any) error {
	return db.WithContext(ctx).
		Model(&domain.Patient{}).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		Updates(fields).Error
}

func (r *repo) Count(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, opts ...option.QueryOption) (int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Patient{}).Where("clinic_id = ?", clinicID)
	for _, opt := range opts {
		stmt = opt.Apply(stmt)
	}
	var count int64
	err := stmt.Count(&count).Error
	return count, err
}

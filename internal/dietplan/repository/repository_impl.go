package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/dietplan/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertTemplate(ctx context.Context, db *gorm.DB, tmpl *domain.Template) error {
	return db.WithContext(ctx).Create(tmpl).Error
}

func (r *repo) FindTemplate(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*domain.Template, error) {
	var tmpl domain.Template
	err := db.WithContext(ctx).Where("clinic_id = ? AND id = ?", clinicID, id).Limit(1).Find(&tmpl).Error
	if err != nil {
		return nil, err
	}
	if tmpl.ID == 0 {
		return nil, nil
	}
	return &tmpl, nil
}

func (r *repo) ListTemplates(ctx context.Context, db *gorm.DB, clinicID snowflake.ID) ([]*domain.Template, error) {
	var items []*domain.Template
	err := db.WithContext(ctx).Where("clinic_id = ?", clinicID).Order("name asc").Find(&items).Error
	return items, err
}

func (r *repo) SaveTemplate(ctx context.Context, db *gorm.DB, tmpl *domain.Template) error {
	return db.WithContext(ctx).Save(tmpl).Error
}

func (r *repo) DeleteTemplate(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) error {
	return db.WithContext(ctx).Where("clinic_id = ? AND id = ?", clinicID, id).Delete(&domain.Template{}).Error
}

func (r *repo) InsertPlan(ctx context.Context, db *gorm.DB, plan *domain.Plan) error {
	return db.WithContext(ctx).Create(plan).Error
}

func (r *repo) FindPlan(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*domain.Plan, error) {
	var plan domain.Plan
	err := db.WithContext(ctx).Where("clinic_id = ? AND id = ?", clinicID, id).Limit(1).Find(&plan).Error
	if err != nil {
		return nil, err
	}
	if plan.ID == 0 {
		return nil, nil
	}
	return &plan, nil
}

func (r *repo) ListPlans(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, patientID *snowflake.ID) ([]*domain.Plan, error) {
	stmt := db.WithContext(ctx).Where("clinic_id = ?", clinicID)
	if patientID != nil {
		stmt = stmt.Where("patient_id = ?", *patientID)
	}
	var items []*domain.Plan
	err := stmt.Order("start_date desc, id desc").Find(&items).Error
	return items, err
}

func (r *repo) DeletePlan(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) error {
	return db.WithContext(ctx).Where("clinic_id = ? AND id = ?", clinicID, id).Delete(&domain.Plan{}).Error
}

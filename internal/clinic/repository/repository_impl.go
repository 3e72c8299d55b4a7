package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/clinic/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, clinic *domain.Clinic) error {
	return db.WithContext(ctx).Create(clinic).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Clinic, error) {
	return r.findOne(ctx, db.Where("id = ?", id))
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Clinic, error) {
	return r.findOne(ctx, db.Where("slug = ?", slug))
}

func (r *repo) First(ctx context.Context, db *gorm.DB) (*domain.Clinic, error) {
	return r.findOne(ctx, db.Order("created_at asc, id asc"))
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, clinic *domain.Clinic) error {
	return db.WithContext(ctx).
		Model(&domain.Clinic{}).
		Where("id = ?", clinic.ID).
		Updates(map[string]any{
			"name":       clinic.Name,
			"address":    clinic.Address,
			"phone":      clinic.Phone,
			"email":      clinic.Email,
			"currency":   clinic.Currency,
			"timezone":   clinic.Timezone,
			"updated_at": clinic.UpdatedAt,
		}).Error
}

func (r *repo) findOne(ctx context.Context, stmt *gorm.DB) (*domain.Clinic, error) {
	var clinic domain.Clinic
	if err := stmt.WithContext(ctx).Limit(1).Find(&clinic).Error; err != nil {
		return nil, err
	}
	if clinic.ID == 0 {
		return nil, nil
	}
	return &clinic, nil
}

package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/socialpost/domain"
	"github.com/smallbiznis/clinicdesk/pkg/db/option"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, post *domain.Post) error {
	return db.WithContext(ctx).Create(post).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*domain.Post, error) {
	var post domain.Post
	err := db.WithContext(ctx).Where("clinic_id = ? AND id = ?", clinicID, id).Limit(1).Find(&post).Error
	if err != nil {
		return nil, err
	}
	if post.ID == 0 {
		return nil, nil
	}
	return &post, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, opts ...option.QueryOption) ([]*domain.Post, error) {
	stmt := db.WithContext(ctx).Model(&domain.Post{}).Where("clinic_id = ?", clinicID)
	for _, opt := range opts {
		stmt = opt.Apply(stmt)
	}
	var posts []*domain.Post
	err := stmt.Order("created_at desc, id desc").Find(&posts).Error
	return posts, err
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error {
	return db.WithContext(ctx).Model(&domain.Post{}).Where("id = ?", id).Updates(fields).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Post{}).Error
}

func (r *repo) ListDue(ctx context.Context, db *gorm.DB, now time.Time, limit int) ([]*domain.Post, error) {
	var posts []*domain.Post
	err := db.WithContext(ctx).
		Where("status = ? AND scheduled_at <= ?", domain.StatusScheduled, now).
		Order("scheduled_at asc, id asc").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *repo) Claim(ctx context.Context, db *gorm.DB, id snowflake.ID, from []domain.Status, fields map[string]any) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.Post{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

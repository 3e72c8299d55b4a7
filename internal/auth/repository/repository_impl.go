package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/auth/domain"
	"github.com/smallbiznis/clinicdesk/pkg/db"
	"github.com/smallbiznis/clinicdesk/pkg/db/option"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(conn *gorm.DB) domain.Repository {
	return &repo{db: conn}
}

func (r *repo) users(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.User{})
}

func (r *repo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.users(ctx).Count(&count).Error
	return count, err
}

func (r *repo) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByEmail matches case-insensitively; emails are stored lowercased but
// rows created by older seeds may not be.
func (r *repo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repo) first(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var user domain.User
	if err := r.users(ctx).Where(query, args...).Take(&user).Error; err != nil {
		return nil, db.NotFoundAs(err, domain.ErrUserNotFound)
	}
	return &user, nil
}

// List returns the clinic's users in creation order.
func (r *repo) List(ctx context.Context, clinicID snowflake.ID, opts ...option.QueryOption) ([]*domain.User, error) {
	stmt := r.users(ctx).Where("clinic_id = ?", clinicID)
	for _, opt := range opts {
		stmt = opt.Apply(stmt)
	}
	users := []*domain.User{}
	if err := stmt.Order("created_at asc, id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repo) UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	res := r.users(ctx).Where("id = ?", id).Updates(fields)
	switch {
	case res.Error != nil:
		return res.Error
	case res.RowsAffected == 0:
		return domain.ErrUserNotFound
	}
	return nil
}

package repository

import (
	"context"
	"strings"

	"github.com/smallbiznis/clinicdesk/internal/audit/domain"
	"github.com/smallbiznis/clinicdesk/pkg/db/option"
	"gorm.io/gorm"
)

// repo is stateless: the service passes the connection so audit rows can be
// written inside a caller's transaction.
type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.AuditLog) error {
	if entry == nil {
		return nil
	}
	return db.WithContext(ctx).Create(entry).Error
}

// List returns the clinic's audit trail newest first.
func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, opts ...option.QueryOption) ([]*domain.AuditLog, error) {
	stmt := db.WithContext(ctx).Model(&domain.AuditLog{}).Where("clinic_id = ?", filter.ClinicID)

	for column, value := range map[string]string{
		"action":      filter.Action,
		"target_type": filter.TargetType,
		"target_id":   filter.TargetID,
		"actor_type":  filter.ActorType,
		"actor_id":    filter.ActorID,
	} {
		if value = strings.TrimSpace(value); value != "" {
			stmt = stmt.Where(column+" = ?", value)
		}
	}
	if filter.StartAt != nil {
		stmt = option.GTE("created_at", filter.StartAt.UTC()).Apply(stmt)
	}
	if filter.EndAt != nil {
		stmt = option.LTE("created_at", filter.EndAt.UTC()).Apply(stmt)
	}
	for _, opt := range opts {
		stmt = opt.Apply(stmt)
	}

	var logs []*domain.AuditLog
	if err := stmt.Order("created_at desc, id desc").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

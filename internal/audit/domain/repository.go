package domain

import (
	"context"

	"github.com/smallbiznis/clinicdesk/pkg/db/option"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AuditLog) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter, opts ...option.QueryOption) ([]*AuditLog, error)
}

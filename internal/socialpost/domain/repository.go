package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/pkg/db/option"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, post *Post) error
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*Post, error)
	List(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, opts ...option.QueryOption) ([]*Post, error)
	Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	// ListDue returns scheduled posts of every clinic that are due at now.
	ListDue(ctx context.Context, db *gorm.DB, now time.Time, limit int) ([]*Post, error)
	// Claim moves a post out of fromStatuses and reports whether this caller won.
	Claim(ctx context.Context, db *gorm.DB, id snowflake.ID, from []Status, fields map[string]any) (bool, error)
}

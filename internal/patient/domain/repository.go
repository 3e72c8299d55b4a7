package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/pkg/db/option"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, patient *Patient) error
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*Patient, error)
	List(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, opts ...option.QueryOption) ([]*Patient, error)
	Update(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID, fields map[string]any) error
	Count(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, opts ...option.QueryOption) (int64, error)
}

package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertTemplate(ctx context.Context, db *gorm.DB, tmpl *Template) error
	FindTemplate(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*Template, error)
	ListTemplates(ctx context.Context, db *gorm.DB, clinicID snowflake.ID) ([]*Template, error)
	SaveTemplate(ctx context.Context, db *gorm.DB, tmpl *Template) error
	DeleteTemplate(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) error

	InsertPlan(ctx context.Context, db *gorm.DB, plan *Plan) error
	FindPlan(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*Plan, error)
	ListPlans(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, patientID *snowflake.ID) ([]*Plan, error)
	DeletePlan(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) error
}

package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertPlan(ctx context.Context, db *gorm.DB, plan *Plan) error
	InsertSessions(ctx context.Context, db *gorm.DB, sessions []Session) error
	FindPlan(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*Plan, error)
	ListPlans(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, patientID *snowflake.ID, status PlanStatus) ([]*Plan, error)
	FindSession(ctx context.Context, db *gorm.DB, planID, id snowflake.ID) (*Session, error)
	UpdateSession(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error
	UpdatePlanStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status PlanStatus) error
	CountSessions(ctx context.Context, db *gorm.DB, planID snowflake.ID, status SessionStatus) (int64, error)
	CancelScheduledSessions(ctx context.Context, db *gorm.DB, planID snowflake.ID) error
}

package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/therapy/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertPlan(ctx context.Context, db *gorm.DB, plan *domain.Plan) error {
	return db.WithContext(ctx).Omit("Sessions").Create(plan).Error
}

func (r *repo) InsertSessions(ctx context.Context, db *gorm.DB, sessions []domain.Session) error {
	if len(sessions) == 0 {
		return nil
	}
	return db.WithContext(ctx).CreateInBatches(sessions, 100).Error
}

func (r *repo) FindPlan(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*domain.Plan, error) {
	var plan domain.Plan
	err := db.WithContext(ctx).
		Preload("Sessions", func(db *gorm.DB) *gorm.DB { return db.Order("sequence asc") }).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		Limit(1).
		Find(&plan).Error
	if err != nil {
		return nil, err
	}
	if plan.ID == 0 {
		return nil, nil
	}
	return &plan, nil
}

func (r *repo) ListPlans(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, patientID *snowflake.ID, status domain.PlanStatus) ([]*domain.Plan, error) {
	stmt := db.WithContext(ctx).Model(&domain.Plan{}).Where("clinic_id = ?", clinicID)
	if patientID != nil {
		stmt = stmt.Where("patient_id = ?", *patientID)
	}
	if status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	var plans []*domain.Plan
	err := stmt.Order("start_date desc, id desc").Find(&plans).Error
	return plans, err
}

func (r *repo) FindSession(ctx context.Context, db *gorm.DB, planID, id snowflake.ID) (*domain.Session, error) {
	var session domain.Session
	err := db.WithContext(ctx).
		Where("plan_id = ? AND id = ?", planID, id).
		Limit(1).
		Find(&session).Error
	if err != nil {
		return nil, err
	}
	if session.ID == 0 {
		return nil, nil
	}
	return &session, nil
}

func (r *repo) UpdateSession(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error {
	return db.WithContext(ctx).Model(&domain.Session{}).Where("id = ?", id).Updates(fields).Error
}

func (r *repo) UpdatePlanStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status domain.PlanStatus) error {
	return db.WithContext(ctx).Model(&domain.Plan{}).Where("id = ?", id).Update("status", status).Error
}

func (r *repo) CountSessions(ctx context.Context, db *gorm.DB, planID snowflake.ID, status domain.SessionStatus) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Session{}).
		Where("plan_id = ? AND status = ?", planID, status).
		Count(&count).Error
	return count, err
}

func (r *repo) CancelScheduledSessions(ctx context.Context, db *gorm.DB, planID snowflake.ID) error {
	return db.WithContext(ctx).Model(&domain.Session{}).
		Where("plan_id = ? AND status = ?", planID, domain.SessionScheduled).
		Update("status", domain.SessionCancelled).Error
}

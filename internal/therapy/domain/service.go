package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreatePlanRequest struct {
	PatientID      snowflake.ID
	TherapistID    snowflake.ID
	TherapyType    string
	StartDate      time.Time
	StartTime      string
	SessionMinutes int
	SessionsCount  int
	IntervalDays   int
	SkipWeekends   bool
	Notes          string
}

type UpdateSessionRequest struct {
	Status string
	Notes  *string
}

type ListPlanRequest struct {
	PatientID *snowflake.ID
	Status    string
}

type Service interface {
	CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error)
	GetPlan(ctx context.Context, id string) (*Plan, error)
	ListPlans(ctx context.Context, req ListPlanRequest) ([]*Plan, error)
	UpdateSession(ctx context.Context, planID, sessionID string, req UpdateSessionRequest) (*Plan, error)
	CancelPlan(ctx context.Context, id string) (*Plan, error)
}

const DefaultSessionMinutes = 45

var (
	ErrInvalidClinic        = errors.New("invalid_clinic")
	ErrInvalidID            = errors.New("invalid_therapy_plan_id")
	ErrInvalidSessionID     = errors.New("invalid_session_id")
	ErrInvalidTherapyType   = errors.New("invalid_therapy_type")
	ErrInvalidStartDate     = errors.New("invalid_start_date")
	ErrInvalidSessionsCount = errors.New("invalid_sessions_count")
	ErrInvalidInterval      = errors.New("invalid_interval_days")
	ErrInvalidDuration      = errors.New("invalid_session_minutes")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrPlanClosed           = errors.New("therapy_plan_closed")
	ErrNotFound             = errors.New("therapy_plan_not_found")
	ErrSessionNotFound      = errors.New("therapy_session_not_found")
)

package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type PlanStatus string

const (
	PlanActive    PlanStatus = "ACTIVE"
	PlanCompleted PlanStatus = "COMPLETED"
	PlanCancelled PlanStatus = "CANCELLED"
)

type SessionStatus string

const (
	SessionScheduled SessionStatus = "SCHEDULED"
	SessionCompleted SessionStatus = "COMPLETED"
	SessionMissed    SessionStatus = "MISSED"
	SessionCancelled SessionStatus = "CANCELLED"
)

func (s SessionStatus) Valid() bool {
	switch s {
	case SessionScheduled, SessionCompleted, SessionMissed, SessionCancelled:
		return true
	}
	return false
}

type Plan struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	ClinicID       snowflake.ID `gorm:"not null;index" json:"clinic_id"`
	PatientID      snowflake.ID `gorm:"not null;index" json:"patient_id"`
	TherapistID    snowflake.ID `gorm:"not null" json:"therapist_id"`
	TherapyType    string       `gorm:"not null" json:"therapy_type"`
	StartDate      time.Time    `gorm:"type:date;not null" json:"start_date"`
	StartTime      string       `gorm:"not null" json:"start_time"`
	SessionMinutes int          `gorm:"not null" json:"session_minutes"`
	SessionsCount  int          `gorm:"not null" json:"sessions_count"`
	IntervalDays   int          `gorm:"not null" json:"interval_days"`
	SkipWeekends   bool         `gorm:"not null" json:"skip_weekends"`
	Status         PlanStatus   `gorm:"type:text;not null" json:"status"`
	Notes          string       `json:"notes,omitempty"`
	Sessions       []Session    `gorm:"foreignKey:PlanID" json:"sessions,omitempty"`
	CreatedAt      time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null" json:"updated_at"`
}

func (Plan) TableName() string { return "therapy_plans" }

type Session struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	PlanID      snowflake.ID  `gorm:"not null;index" json:"plan_id"`
	Sequence    int           `gorm:"not null" json:"sequence"`
	ScheduledAt time.Time     `gorm:"not null" json:"scheduled_at"`
	Status      SessionStatus `gorm:"type:text;not null" json:"status"`
	Notes       string        `json:"notes,omitempty"`
	UpdatedAt   time.Time     `gorm:"not null" json:"updated_at"`
}

func (Session) TableName() string { return "therapy_sessions" }

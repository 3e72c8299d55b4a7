package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusConfirmed Status = "CONFIRMED"
	StatusCheckedIn Status = "CHECKED_IN"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
	StatusNoShow    Status = "NO_SHOW"
)

// transitions lists the statuses reachable from each non-terminal status.
var transitions = map[Status][]Status{
	StatusScheduled: {StatusConfirmed, StatusCheckedIn, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCheckedIn, StatusCancelled, StatusNoShow, StatusScheduled},
	StatusCheckedIn: {StatusCompleted, StatusCancelled},
}

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCheckedIn, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, candidate := range transitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

type Appointment struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ClinicID  snowflake.ID `gorm:"not null;index" json:"clinic_id"`
	PatientID snowflake.ID `gorm:"not null;index" json:"patient_id"`
	StaffID   snowflake.ID `gorm:"not null;index:ix_appointments_staff_start" json:"staff_id"`
	StartAt   time.Time    `gorm:"not null;index:ix_appointments_staff_start" json:"start_at"`
	EndAt     time.Time    `gorm:"not null" json:"end_at"`
	Status    Status       `gorm:"type:text;not null" json:"status"`
	Reason    string       `json:"reason,omitempty"`
	Notes     string       `json:"notes,omitempty"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}

func (Appointment) TableName() string { return "appointments" }

package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateAppointmentRequest struct {
	PatientID snowflake.ID
	StaffID   snowflake.ID
	StartAt   time.Time
	EndAt     *time.Time
	Reason    string
	Notes     string
}

type RescheduleRequest struct {
	StartAt time.Time
	EndAt   *time.Time
}

type ListAppointmentRequest struct {
	PatientID *snowflake.ID
	StaffID   *snowflake.ID
	Status    string
	From      *time.Time
	To        *time.Time
}

type Service interface {
	Create(ctx context.Context, req CreateAppointmentRequest) (*Appointment, error)
	Get(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context, req ListAppointmentRequest) ([]*Appointment, error)
	Reschedule(ctx context.Context, id string, req RescheduleRequest) (*Appointment, error)
	UpdateStatus(ctx context.Context, id string, status string) (*Appointment, error)
}

const DefaultDuration = 30 * time.Minute

var (
	ErrInvalidClinic     = errors.New("invalid_clinic")
	ErrInvalidID         = errors.New("invalid_appointment_id")
	ErrInvalidTimeRange  = errors.New("invalid_time_range")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidTransition = errors.New("invalid_status_transition")
	ErrConflict          = errors.New("appointment_conflict")
	ErrImmutable         = errors.New("appointment_closed")
	ErrNotFound          = errors.New("appointment_not_found")
)

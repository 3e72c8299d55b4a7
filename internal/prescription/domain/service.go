package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type ItemInput struct {
	Medicine     string
	Dosage       string
	Frequency    string
	DurationDays int
	Instructions string
}

type CreatePrescriptionRequest struct {
	PatientID     snowflake.ID
	StaffID       snowflake.ID
	AppointmentID *snowflake.ID
	Diagnosis     string
	Notes         string
	IssuedAt      *time.Time
	Items         []ItemInput
}

type UpdatePrescriptionRequest struct {
	Diagnosis *string
	Notes     *string
	Items     []ItemInput
}

type Service interface {
	Create(ctx context.Context, req CreatePrescriptionRequest) (*Prescription, error)
	Get(ctx context.Context, id string) (*Prescription, error)
	ListByPatient(ctx context.Context, patientID string) ([]*Prescription, error)
	Update(ctx context.Context, id string, req UpdatePrescriptionRequest) (*Prescription, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidClinic   = errors.New("invalid_clinic")
	ErrInvalidID       = errors.New("invalid_prescription_id")
	ErrEmptyItems      = errors.New("empty_items")
	ErrInvalidMedicine = errors.New("invalid_medicine")
	ErrInvalidDuration = errors.New("invalid_duration")
	ErrNotFound        = errors.New("prescription_not_found")
)

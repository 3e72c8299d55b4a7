package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/pkg/db/pagination"
)

type CreatePatientRequest struct {
	FirstName      string
	LastName       string
	Gender         string
	DateOfBirth    *time.Time
	Phone          string
	Email          string
	Address        string
	BloodGroup     string
	Allergies      string
	EmergencyName  string
	EmergencyPhone string
	Notes          string
	Metadata       map[string]any
}

type UpdatePatientRequest struct {
	FirstName      *string
	LastName       *string
	Gender         *string
	DateOfBirth    *time.Time
	Phone          *string
	Email          *string
	Address        *string
	BloodGroup     *string
	Allergies      *string
	EmergencyName  *string
	EmergencyPhone *string
	Notes          *string
	Metadata       map[string]any
}

type ListPatientRequest struct {
	pagination.Pagination
	Search string
}

type ListPatientResponse struct {
	pagination.PageInfo
	Patients []*Patient `json:"patients"`
}

type Service interface {
	Create(ctx context.Context, req CreatePatientRequest) (*Patient, error)
	Get(ctx context.Context, id string) (*Patient, error)
	Update(ctx context.Context, id string, req UpdatePatientRequest) (*Patient, error)
	List(ctx context.Context, req ListPatientRequest) (ListPatientResponse, error)
	// Resolve loads a patient of the clinic in ctx, failing with ErrNotFound.
	Resolve(ctx context.Context, id snowflake.ID) (*Patient, error)
}

var (
	ErrInvalidClinic      = errors.New("invalid_clinic")
	ErrInvalidID          = errors.New("invalid_patient_id")
	ErrInvalidFirstName   = errors.New("invalid_first_name")
	ErrInvalidGender      = errors.New("invalid_gender")
	ErrInvalidDateOfBirth = errors.New("invalid_date_of_birth")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrNotFound           = errors.New("patient_not_found")
)

package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	RoleDoctor       = "doctor"
	RoleNurse        = "nurse"
	RoleTherapist    = "therapist"
	RoleReceptionist = "receptionist"
	RoleAccountant   = "accountant"
	RoleAdmin        = "admin"
)

var Roles = []string{RoleDoctor, RoleNurse, RoleTherapist, RoleReceptionist, RoleAccountant, RoleAdmin}

type Staff struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"id"`
	ClinicID       snowflake.ID  `gorm:"not null;index" json:"clinic_id"`
	UserID         *snowflake.ID `gorm:"index" json:"user_id,omitempty"`
	Name           string        `gorm:"not null" json:"name"`
	Email          string        `json:"email,omitempty"`
	Phone          string        `json:"phone,omitempty"`
	Role           string        `gorm:"not null" json:"role"`
	Specialization string        `json:"specialization,omitempty"`
	Active         bool          `gorm:"not null;default:true" json:"active"`
	CreatedAt      time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null" json:"updated_at"`
}

func (Staff) TableName() string { return "staff" }

type CreateStaffRequest struct {
	UserID         *snowflake.ID
	Name           string
	Email          string
	Phone          string
	Role           string
	Specialization string
}

type UpdateStaffRequest struct {
	Name           *string
	Email          *string
	Phone          *string
	Role           *string
	Specialization *string
	Active         *bool
}

type ListStaffRequest struct {
	Role   string
	Active *bool
}

type Service interface {
	Create(ctx context.Context, req CreateStaffRequest) (*Staff, error)
	Get(ctx context.Context, id string) (*Staff, error)
	Update(ctx context.Context, id string, req UpdateStaffRequest) (*Staff, error)
	List(ctx context.Context, req ListStaffRequest) ([]*Staff, error)
	Deactivate(ctx context.Context, id string) (*Staff, error)
	// Resolve loads an active staff member of the clinic in ctx.
	Resolve(ctx context.Context, id snowflake.ID) (*Staff, error)
}

var (
	ErrInvalidClinic = errors.New("invalid_clinic")
	ErrInvalidID     = errors.New("invalid_staff_id")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidRole   = errors.New("invalid_role")
	ErrInactive      = errors.New("staff_inactive")
	ErrNotFound      = errors.New("staff_not_found")
)

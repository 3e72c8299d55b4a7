package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	ClinicID  snowflake.ID
	PatientID *snowflake.ID
	StaffID   *snowflake.ID
	Status    Status
	From      *time.Time
	To        *time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, appt *Appointment) error
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*Appointment, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Appointment, error)
	Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error
	// HasOverlap reports a live appointment of staffID intersecting [start, end).
	HasOverlap(ctx context.Context, db *gorm.DB, clinicID, staffID snowflake.ID, start, end time.Time, exclude snowflake.ID) (bool, error)
}

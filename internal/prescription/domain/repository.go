package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rx *Prescription) error
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*Prescription, error)
	ListByPatient(ctx context.Context, db *gorm.DB, clinicID, patientID snowflake.ID) ([]*Prescription, error)
	Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error
	ReplaceItems(ctx context.Context, db *gorm.DB, id snowflake.ID, items []Item) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}

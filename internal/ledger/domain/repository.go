package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *Entry) error
	// Latest returns the newest entry of the patient chain, or nil.
	Latest(ctx context.Context, db *gorm.DB, clinicID, patientID snowflake.ID) (*Entry, error)
	// ListAfter walks the chain oldest first, strictly after the given position.
	ListAfter(ctx context.Context, db *gorm.DB, clinicID, patientID snowflake.ID, after *time.Time, afterID snowflake.ID, limit int) ([]*Entry, error)
	ListByBill(ctx context.Context, db *gorm.DB, clinicID, billID snowflake.ID) ([]*Entry, error)
}

package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertItem(ctx context.Context, db *gorm.DB, item *Item) error
	FindItem(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*Item, error)
	ListItems(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, lowStock bool, search string) ([]*Item, error)
	UpdateItem(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error
	// ApplyDelta moves quantity by delta only when the result stays non-negative.
	ApplyDelta(ctx context.Context, db *gorm.DB, id snowflake.ID, delta int64) (bool, error)
	SetQuantity(ctx context.Context, db *gorm.DB, id snowflake.ID, quantity int64) error
	InsertAdjustment(ctx context.Context, db *gorm.DB, adj *Adjustment) error
	ListAdjustments(ctx context.Context, db *gorm.DB, itemID snowflake.ID) ([]*Adjustment, error)
	CountLowStock(ctx context.Context, db *gorm.DB, clinicID snowflake.ID) (int64, error)
}

package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateItemRequest struct {
	Name         string
	SKU          string
	Unit         string
	Quantity     int64
	ReorderLevel int64
	UnitCost     int64
}

type UpdateItemRequest struct {
	Name         *string
	Unit         *string
	ReorderLevel *int64
	UnitCost     *int64
}

type ListItemRequest struct {
	LowStock bool
	Search   string
}

type AdjustRequest struct {
	Kind     string
	Quantity int64
	Reason   string
}

type Service interface {
	CreateItem(ctx context.Context, req CreateItemRequest) (*Item, error)
	GetItem(ctx context.Context, id string) (*Item, error)
	UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (*Item, error)
	ListItems(ctx context.Context, req ListItemRequest) ([]*Item, error)
	Adjust(ctx context.Context, id string, req AdjustRequest) (*Adjustment, error)
	ListAdjustments(ctx context.Context, id string) ([]*Adjustment, error)
	CountLowStock(ctx context.Context, clinicID snowflake.ID) (int64, error)
}

var (
	ErrInvalidClinic     = errors.New("invalid_clinic")
	ErrInvalidID         = errors.New("invalid_item_id")
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidSKU        = errors.New("invalid_sku")
	ErrInvalidQuantity   = errors.New("invalid_quantity")
	ErrInvalidKind       = errors.New("invalid_adjustment_kind")
	ErrInvalidUnitCost   = errors.New("invalid_unit_cost")
	ErrDuplicateSKU      = errors.New("duplicate_sku")
	ErrInsufficientStock = errors.New("insufficient_stock")
	ErrNotFound          = errors.New("inventory_item_not_found")
)

package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type AdjustmentKind string

const (
	AdjustIn  AdjustmentKind = "IN"
	AdjustOut AdjustmentKind = "OUT"
	AdjustSet AdjustmentKind = "SET"
)

type Item struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	ClinicID     snowflake.ID `gorm:"not null;uniqueIndex:ux_inventory_clinic_sku" json:"clinic_id"`
	Name         string       `gorm:"not null" json:"name"`
	SKU          string       `gorm:"column:sku;not null;uniqueIndex:ux_inventory_clinic_sku" json:"sku"`
	Unit         string       `gorm:"not null" json:"unit"`
	Quantity     int64        `gorm:"not null" json:"quantity"`
	ReorderLevel int64        `gorm:"not null" json:"reorder_level"`
	UnitCost     int64        `gorm:"not null" json:"unit_cost"`
	CreatedAt    time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null" json:"updated_at"`
}

func (Item) TableName() string { return "inventory_items" }

// Low reports whether the item has hit its reorder level.
func (i Item) Low() bool {
	return i.Quantity <= i.ReorderLevel
}

type Adjustment struct {
	ID           snowflake.ID   `gorm:"primaryKey" json:"id"`
	ClinicID     snowflake.ID   `gorm:"not null;index" json:"clinic_id"`
	ItemID       snowflake.ID   `gorm:"not null;index" json:"item_id"`
	Kind         AdjustmentKind `gorm:"type:text;not null" json:"kind"`
	Quantity     int64          `gorm:"not null" json:"quantity"`
	BalanceAfter int64          `gorm:"not null" json:"balance_after"`
	Reason       string         `json:"reason,omitempty"`
	ActorID      *snowflake.ID  `json:"actor_id,omitempty"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
}

func (Adjustment) TableName() string { return "inventory_adjustments" }

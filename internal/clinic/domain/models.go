package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Clinic struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	Slug      string       `gorm:"not null;uniqueIndex" json:"slug"`
	Address   string       `json:"address,omitempty"`
	Phone     string       `json:"phone,omitempty"`
	Email     string       `json:"email,omitempty"`
	Currency  string       `gorm:"not null;default:'INR'" json:"currency"`
	Timezone  string       `gorm:"not null;default:'UTC'" json:"timezone"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}

func (Clinic) TableName() string { return "clinics" }

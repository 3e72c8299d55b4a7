// Package domain contains core types for the auth service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	RoleAdmin        = "admin"
	RoleDoctor       = "doctor"
	RoleReceptionist = "receptionist"
	RoleAccountant   = "accountant"
)

// Roles lists every role a user can hold.
var Roles = []string{RoleAdmin, RoleDoctor, RoleReceptionist, RoleAccountant}

func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// User represents a clinic user account.
type User struct {
	ID                  snowflake.ID `gorm:"primaryKey" json:"id"`
	ClinicID            snowflake.ID `gorm:"column:clinic_id;not null;index" json:"clinic_id"`
	Name                string       `gorm:"type:text;not null" json:"name"`
	Email               string       `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash        string       `gorm:"type:text;not null" json:"-"`
	Role                string       `gorm:"type:text;not null" json:"role"`
	Active              bool         `gorm:"not null;default:true" json:"active"`
	LastLoginAt         *time.Time   `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	LastPasswordChanged *time.Time   `gorm:"column:last_password_changed" json:"-"`
	CreatedAt           time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time    `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// Claims is the verified content of a session token.
type Claims struct {
	UserID    snowflake.ID
	ClinicID  snowflake.ID
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

type Patient struct {
	ID               snowflake.ID      `gorm:"primaryKey" json:"id"`
	ClinicID         snowflake.ID      `gorm:"not null;index;uniqueIndex:ux_patients_clinic_mrn" json:"clinic_id"`
	MRN              string            `gorm:"column:mrn;not null;uniqueIndex:ux_patients_clinic_mrn" json:"mrn"`
	FirstName        string            `gorm:"not null" json:"first_name"`
	LastName         string            `json:"last_name,omitempty"`
	Gender           string            `json:"gender,omitempty"`
	DateOfBirth      *time.Time        `gorm:"type:date" json:"date_of_birth,omitempty"`
	Phone            string            `gorm:"index" json:"phone,omitempty"`
	Email            string            `json:"email,omitempty"`
	Address          string            `json:"address,omitempty"`
	BloodGroup       string            `json:"blood_group,omitempty"`
	Allergies        string            `json:"allergies,omitempty"`
	EmergencyName    string            `json:"emergency_contact_name,omitempty"`
	EmergencyPhone   string            `json:"emergency_contact_phone,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	Metadata         datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt        time.Time         `gorm:"not null;index" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"not null" json:"updated_at"`
}

func (Patient) TableName() string { return "patients" }

// FullName joins first and last name.
func (p Patient) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

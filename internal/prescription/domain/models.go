package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Prescription struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	ClinicID      snowflake.ID  `gorm:"not null;index" json:"clinic_id"`
	PatientID     snowflake.ID  `gorm:"not null;index" json:"patient_id"`
	StaffID       snowflake.ID  `gorm:"not null" json:"staff_id"`
	AppointmentID *snowflake.ID `json:"appointment_id,omitempty"`
	Diagnosis     string        `json:"diagnosis,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	IssuedAt      time.Time     `gorm:"not null" json:"issued_at"`
	Items         []Item        `gorm:"foreignKey:PrescriptionID" json:"items"`
	CreatedAt     time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null" json:"updated_at"`
}

func (Prescription) TableName() string { return "prescriptions" }

type Item struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	PrescriptionID snowflake.ID `gorm:"not null;index" json:"prescription_id"`
	Medicine       string       `gorm:"not null" json:"medicine"`
	Dosage         string       `json:"dosage,omitempty"`
	Frequency      string       `json:"frequency,omitempty"`
	DurationDays   int          `json:"duration_days"`
	Instructions   string       `json:"instructions,omitempty"`
	Position       int          `gorm:"not null" json:"-"`
}

func (Item) TableName() string { return "prescription_items" }

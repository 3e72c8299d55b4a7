package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Meal struct {
	Name  string   `json:"name"`
	Time  string   `json:"time,omitempty"`
	Items []string `json:"items"`
	Notes string   `json:"notes,omitempty"`
}

type Template struct {
	ID             snowflake.ID              `gorm:"primaryKey" json:"id"`
	ClinicID       snowflake.ID              `gorm:"not null;index" json:"clinic_id"`
	Name           string                    `gorm:"not null" json:"name"`
	Description    string                    `json:"description,omitempty"`
	CaloriesTarget int                       `json:"calories_target"`
	Instructions   string                    `gorm:"type:text" json:"instructions"`
	Meals          datatypes.JSONSlice[Meal] `json:"meals"`
	CreatedAt      time.Time                 `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time                 `gorm:"not null" json:"updated_at"`
}

func (Template) TableName() string { return "diet_templates" }

type Plan struct {
	ID             snowflake.ID              `gorm:"primaryKey" json:"id"`
	ClinicID       snowflake.ID              `gorm:"not null;index" json:"clinic_id"`
	PatientID      snowflake.ID              `gorm:"not null;index" json:"patient_id"`
	TemplateID     *snowflake.ID             `json:"template_id,omitempty"`
	Title          string                    `gorm:"not null" json:"title"`
	StartDate      time.Time                 `gorm:"type:date;not null" json:"start_date"`
	EndDate        time.Time                 `gorm:"type:date;not null" json:"end_date"`
	CaloriesTarget int                       `json:"calories_target"`
	Instructions   string                    `gorm:"type:text" json:"instructions"`
	Meals          datatypes.JSONSlice[Meal] `json:"meals"`
	CreatedAt      time.Time                 `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time                 `gorm:"not null" json:"updated_at"`
}

func (Plan) TableName() string { return "diet_plans" }

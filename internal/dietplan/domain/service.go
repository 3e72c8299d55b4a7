package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type TemplateInput struct {
	Name           string
	Description    string
	CaloriesTarget int
	Instructions   string
	Meals          []Meal
}

type CreatePlanRequest struct {
	PatientID      snowflake.ID
	TemplateID     *snowflake.ID
	Title          string
	StartDate      time.Time
	EndDate        time.Time
	CaloriesTarget *int
	Instructions   string
	Meals          []Meal
	Variables      map[string]string
}

type Service interface {
	CreateTemplate(ctx context.Context, req TemplateInput) (*Template, error)
	ListTemplates(ctx context.Context) ([]*Template, error)
	GetTemplate(ctx context.Context, id string) (*Template, error)
	UpdateTemplate(ctx context.Context, id string, req TemplateInput) (*Template, error)
	DeleteTemplate(ctx context.Context, id string) error

	CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error)
	GetPlan(ctx context.Context, id string) (*Plan, error)
	ListPlans(ctx context.Context, patientID *snowflake.ID) ([]*Plan, error)
	DeletePlan(ctx context.Context, id string) error
}

var (
	ErrInvalidClinic    = errors.New("invalid_clinic")
	ErrInvalidID        = errors.New("invalid_diet_id")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidCalories  = errors.New("invalid_calories_target")
	ErrInvalidMeals     = errors.New("invalid_meals")
	ErrInvalidDateRange = errors.New("invalid_date_range")
	ErrTemplateNotFound = errors.New("diet_template_not_found")
	ErrPlanNotFound     = errors.New("diet_plan_not_found")
)

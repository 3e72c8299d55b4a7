package domain

import (
	"context"
	"errors"
)

type CreateClinicRequest struct {
	Name     string
	Address  string
	Phone    string
	Email    string
	Currency string
	Timezone string
}

type UpdateClinicRequest struct {
	Name     *string
	Address  *string
	Phone    *string
	Email    *string
	Currency *string
	Timezone *string
}

type Service interface {
	Create(ctx context.Context, req CreateClinicRequest) (Clinic, error)
	Current(ctx context.Context) (Clinic, error)
	UpdateCurrent(ctx context.Context, req UpdateClinicRequest) (Clinic, error)
}

var (
	ErrInvalidClinic   = errors.New("invalid_clinic")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidCurrency = errors.New("invalid_currency")
	ErrInvalidTimezone = errors.New("invalid_timezone")
	ErrNotFound        = errors.New("clinic_not_found")
)

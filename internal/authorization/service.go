package authorization

import (
	"context"
	"errors"
)

type Service interface {
	// Authorize checks the actor in ctx against object and action.
	Authorize(ctx context.Context, object string, action string) error
}

var (
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidActor  = errors.New("invalid_actor")
	ErrInvalidClinic = errors.New("invalid_clinic")
	ErrInvalidObject = errors.New("invalid_object")
	ErrInvalidAction = errors.New("invalid_action")
)

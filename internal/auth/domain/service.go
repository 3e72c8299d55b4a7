package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Authenticate(ctx context.Context, rawToken string) (*Claims, error)
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
	Me(ctx context.Context) (*User, error)
}

type CreateUserRequest struct {
	// ClinicID is only honored for bootstrap callers without an actor.
	ClinicID snowflake.ID
	Name     string
	Email    string
	Password string
	Role     string
}

type LoginRequest struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

type LoginResult struct {
	User      *User
	Token     string
	ExpiresAt time.Time
}

type ChangePasswordRequest struct {
	CurrentPassword string
	NewPassword     string
}

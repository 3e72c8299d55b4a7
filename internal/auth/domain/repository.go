package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/pkg/db/option"
)

type Repository interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id snowflake.ID) (*User, error)
	List(ctx context.Context, clinicID snowflake.ID, opts ...option.QueryOption) ([]*User, error)
	UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error
}

// Package repository is a small generic gorm store for aggregates that need
// nothing beyond equality filters, such as the staff directory.
package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/clinicdesk/pkg/db/option"
)

// ErrNoRows is returned by Update when no row has the given id.
var ErrNoRows = errors.New("no_rows_affected")

// Repository stores T. Query structs act as equality filters and their zero
// fields are ignored, so a boolean false must be filtered with an option.
type Repository[T any] interface {
	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	// FindOne returns nil, nil when nothing matches.
	FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error)
	Create(ctx context.Context, resource *T) error
	Update(ctx context.Context, id any, fields map[string]any) error
}

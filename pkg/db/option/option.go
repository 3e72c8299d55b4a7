// Package option holds composable gorm query modifiers shared by repositories.
package option

import (
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/clinicdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type QueryOption interface {
	Apply(db *gorm.DB) *gorm.DB
}

type QueryOptionFunc func(db *gorm.DB) *gorm.DB

func (f QueryOptionFunc) Apply(db *gorm.DB) *gorm.DB {
	return f(db)
}

type Operator string

const (
	Equal        Operator = "="
	NotEqual     Operator = "<>"
	GreaterThan  Operator = ">"
	GreaterEqual Operator = ">="
	LessThan     Operator = "<"
	LessEqual    Operator = "<="
	In           Operator = "IN"
	Like         Operator = "LIKE"
)

// WithSortBy orders by a whitelisted column. Unknown directions fall back to DESC.
func WithSortBy(column, direction string) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		column = strings.TrimSpace(column)
		if column == "" {
			return db
		}
		dir := strings.ToUpper(strings.TrimSpace(direction))
		if dir != "ASC" {
			dir = "DESC"
		}
		return db.Order(fmt.Sprintf("%s %s", column, dir))
	})
}

func ApplyOperator(column string, op Operator, value any) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		switch op {
		case In:
			return db.Where(fmt.Sprintf("%s IN ?", column), value)
		case Like:
			return db.Where(fmt.Sprintf("LOWER(%s) LIKE ?", column), value)
		default:
			return db.Where(fmt.Sprintf("%s %s ?", column, op), value)
		}
	})
}

// ApplyCondition adds the option only when ok is true.
func ApplyCondition(ok bool, opt QueryOption) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		if !ok || opt == nil {
			return db
		}
		return opt.Apply(db)
	})
}

func GTE(column string, value time.Time) QueryOption {
	return ApplyOperator(column, GreaterEqual, value)
}

func LTE(column string, value time.Time) QueryOption {
	return ApplyOperator(column, LessEqual, value)
}

// Contains matches a case-insensitive substring across the given columns.
func Contains(term string, columns ...string) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" || len(columns) == 0 {
			return db
		}
		like := "%" + term + "%"
		clauses := make([]string, 0, len(columns))
		args := make([]any, 0, len(columns))
		for _, column := range columns {
			clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ?", column))
			args = append(args, like)
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	})
}

// ApplyPagination decodes the cursor (newest first) and limits to size+1
// so callers can detect whether another page exists. Callers reject bad
// tokens with Pagination.Validate first; here an unreadable one is ignored.
func ApplyPagination(page pagination.Pagination) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		size := page.PageSize
		if size <= 0 {
			size = pagination.DefaultPageSize
		}
		if size > pagination.MaxPageSize {
			size = pagination.MaxPageSize
		}
		if createdAt, id, ok, _ := pagination.ParseToken(page.PageToken); ok {
			db = db.Where("(created_at < ? OR (created_at = ? AND id < ?))", createdAt, createdAt, id)
		}
		return db.Limit(size + 1)
	})
}

package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIsDuplicateKeyErr(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "gorm translated", err: fmt.Errorf("insert bill: %w", gorm.ErrDuplicatedKey), want: true},
		{name: "postgres unique violation", err: fmt.Errorf("insert bill: %w", &pgconn.PgError{Code: "23505", Message: "whatever the server says"}), want: true},
		{name: "postgres other sqlstate", err: &pgconn.PgError{Code: "23503", Message: "duplicate key value violates unique constraint"}, want: false},
		{name: "mysql duplicate entry", err: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, want: true},
		{name: "mysql other", err: &mysql.MySQLError{Number: 1452, Message: "fk"}, want: false},
		{name: "sqlite message", err: errors.New("UNIQUE constraint failed: bills.bill_number"), want: true},
		{name: "unrelated", err: errors.New("connection reset"), want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsDuplicateKeyErr(tc.err))
		})
	}
}

func TestIsDuplicateKeyErrOnSqlite(t *testing.T) {
	type row struct {
		ID   int64  `gorm:"primaryKey"`
		Code string `gorm:"uniqueIndex"`
	}
	conn, err := NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&row{}))
	require.NoError(t, conn.Create(&row{ID: 1, Code: "BILL-1"}).Error)

	err = conn.Create(&row{ID: 2, Code: "BILL-1"}).Error
	require.Error(t, err)
	assert.True(t, IsDuplicateKeyErr(err))
}

func TestNotFoundAs(t *testing.T) {
	domainErr := errors.New("bill_not_found")
	assert.Equal(t, domainErr, NotFoundAs(gorm.ErrRecordNotFound, domainErr))
	other := errors.New("boom")
	assert.Equal(t, other, NotFoundAs(other, domainErr))
	assert.NoError(t, NotFoundAs(nil, domainErr))
}

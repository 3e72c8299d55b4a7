package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeSQL(t *testing.T) {
	cases := []struct {
		sql   string
		op    string
		table string
	}{
		{`SELECT * FROM "bills" WHERE "bills"."id" = ?`, "SELECT", "bills"},
		{"INSERT INTO `ledger_entries` (`id`) VALUES (?)", "INSERT", "ledger_entries"},
		{`UPDATE "bills" SET "paid"="paid"+? WHERE balance >= ?`, "UPDATE", "bills"},
		{`DELETE FROM bill_items WHERE bill_id = ?`, "DELETE", "bill_items"},
		{`PRAGMA foreign_keys = ON`, "OTHER", ""},
	}
	for _, tc := range cases {
		op, table := describeSQL(tc.sql)
		assert.Equal(t, tc.op, op, tc.sql)
		assert.Equal(t, tc.table, table, tc.sql)
	}
}

func TestTruncateSQL(t *testing.T) {
	long := strings.Repeat("x", maxLoggedSQL+10)
	assert.Len(t, truncateSQL(long), maxLoggedSQL+3)
	assert.Equal(t, "SELECT 1", truncateSQL("  SELECT 1 "))
}

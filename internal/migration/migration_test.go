package migration

import (
	"strings"
	"testing"

	"github.com/smallbiznis/clinicdesk/pkg/db"
	"github.com/stretchr/testify/require"
)

func TestRunMigrationsFallsBackToAutoMigrate(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)

	require.NoError(t, RunMigrations(conn))
	require.NoError(t, RunMigrations(conn))

	for _, table := range []string{"clinics", "users", "patients", "bills", "bill_items", "payments", "ledger_entries", "social_posts", "inventory_items"} {
		require.True(t, conn.Migrator().HasTable(table), table)
	}
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := embeddedMigrations.ReadDir(migrationsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	require.Equal(t, ups, downs)
}

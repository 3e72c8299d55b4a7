package seed

import (
	"testing"

	authdomain "github.com/smallbiznis/clinicdesk/internal/auth/domain"
	"github.com/smallbiznis/clinicdesk/internal/auth/password"
	clinicdomain "github.com/smallbiznis/clinicdesk/internal/clinic/domain"
	"github.com/smallbiznis/clinicdesk/internal/config"
	"github.com/smallbiznis/clinicdesk/pkg/db"
	"github.com/stretchr/testify/require"
)

func TestEnsureDefaultClinicAndAdminIsIdempotent(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&clinicdomain.Clinic{}, &authdomain.User{}))

	cfg := config.BootstrapConfig{
		ClinicName:    "Sunrise Wellness",
		AdminEmail:    "Owner@Example.com",
		AdminPassword: "correct-horse",
	}
	require.NoError(t, EnsureDefaultClinicAndAdmin(conn, cfg))
	require.NoError(t, EnsureDefaultClinicAndAdmin(conn, cfg))

	var clinics []clinicdomain.Clinic
	require.NoError(t, conn.Find(&clinics).Error)
	require.Len(t, clinics, 1)
	require.Equal(t, "sunrise-wellness", clinics[0].Slug)

	var users []authdomain.User
	require.NoError(t, conn.Find(&users).Error)
	require.Len(t, users, 1)
	require.Equal(t, "owner@example.com", users[0].Email)
	require.Equal(t, authdomain.RoleAdmin, users[0].Role)
	require.Equal(t, clinics[0].ID, users[0].ClinicID)
	require.True(t, password.Verify("correct-horse", users[0].PasswordHash))
}

func TestEnsureDefaultClinicAndAdminRequiresCredentials(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.ErrorIs(t, EnsureDefaultClinicAndAdmin(conn, config.BootstrapConfig{}), ErrMissingAdminCredentials)
}

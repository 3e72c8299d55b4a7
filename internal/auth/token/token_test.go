package token

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/auth/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	issuer := NewIssuerWithClock("secret", time.Hour, func() time.Time { return now })

	user := &domain.User{ID: snowflake.ID(42), ClinicID: snowflake.ID(7), Role: domain.RoleDoctor}
	raw, expiresAt, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expiresAt)

	claims, err := issuer.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, snowflake.ID(42), claims.UserID)
	assert.Equal(t, snowflake.ID(7), claims.ClinicID)
	assert.Equal(t, domain.RoleDoctor, claims.Role)
}

func TestParseExpired(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	issuer := NewIssuerWithClock("secret", time.Hour, clock)

	raw, _, err := issuer.Issue(&domain.User{ID: 1, ClinicID: 1, Role: domain.RoleAdmin})
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = issuer.Parse(raw)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	a := NewIssuerWithClock("secret-a", time.Hour, time.Now)
	b := NewIssuerWithClock("secret-b", time.Hour, time.Now)

	raw, _, err := a.Issue(&domain.User{ID: 1, ClinicID: 1, Role: domain.RoleAdmin})
	require.NoError(t, err)

	_, err = b.Parse(raw)
	assert.ErrorIs(t, err, domain.ErrInvalidSession)

	_, err = b.Parse("")
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	"github.com/smallbiznis/clinicdesk/internal/clock"
	"github.com/smallbiznis/clinicdesk/internal/staff/domain"
	"github.com/smallbiznis/clinicdesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Staff{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{DB: conn, Log: zap.NewNop(), GenID: node, Clock: clock.NewFakeClock(time.Now().UTC())})
}

func TestStaffLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := cliniccontext.WithClinicID(context.Background(), snowflake.ID(5))

	doc, err := svc.Create(ctx, domain.CreateStaffRequest{Name: "Dr Kapoor", Role: "Doctor", Specialization: "Ortho"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDoctor, doc.Role)
	assert.True(t, doc.Active)

	_, err = svc.Create(ctx, domain.CreateStaffRequest{Name: "Sam", Role: "therapist"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateStaffRequest{Name: "X", Role: "pilot"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	doctors, err := svc.List(ctx, domain.ListStaffRequest{Role: "doctor"})
	require.NoError(t, err)
	require.Len(t, doctors, 1)

	deactivated, err := svc.Deactivate(ctx, doc.ID.String())
	require.NoError(t, err)
	assert.False(t, deactivated.Active)

	_, err = svc.Resolve(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrInactive)

	active := true
	activeOnly, err := svc.List(ctx, domain.ListStaffRequest{Active: &active})
	require.NoError(t, err)
	require.Len(t, activeOnly, 1)
	assert.Equal(t, "Sam", activeOnly[0].Name)
}

func TestStaffScopedToClinic(t *testing.T) {
	svc := newTestService(t)

	doc, err := svc.Create(cliniccontext.WithClinicID(context.Background(), snowflake.ID(5)), domain.CreateStaffRequest{Name: "A", Role: "nurse"})
	require.NoError(t, err)

	_, err = svc.Get(cliniccontext.WithClinicID(context.Background(), snowflake.ID(6)), doc.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

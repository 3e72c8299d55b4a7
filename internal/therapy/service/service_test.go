package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	"github.com/smallbiznis/clinicdesk/internal/clock"
	patientdomain "github.com/smallbiznis/clinicdesk/internal/patient/domain"
	patientrepo "github.com/smallbiznis/clinicdesk/internal/patient/repository"
	patientservice "github.com/smallbiznis/clinicdesk/internal/patient/service"
	staffdomain "github.com/smallbiznis/clinicdesk/internal/staff/domain"
	staffservice "github.com/smallbiznis/clinicdesk/internal/staff/service"
	"github.com/smallbiznis/clinicdesk/internal/therapy/domain"
	"github.com/smallbiznis/clinicdesk/internal/therapy/repository"
	"github.com/smallbiznis/clinicdesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	svc         domain.Service
	ctx         context.Context
	patientID   snowflake.ID
	therapistID snowflake.ID
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Plan{}, &domain.Session{}, &patientdomain.Patient{}, &staffdomain.Staff{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	patients := patientservice.New(patientservice.Params{DB: conn, Log: log, GenID: node, Clock: clk, Repo: patientrepo.Provide()})
	staff := staffservice.New(staffservice.Params{DB: conn, Log: log, GenID: node, Clock: clk})

	ctx := cliniccontext.WithClinicID(context.Background(), snowflake.ID(1))
	patient, err := patients.Create(ctx, patientdomain.CreatePatientRequest{FirstName: "Farah"})
	require.NoError(t, err)
	therapist, err := staff.Create(ctx, staffdomain.CreateStaffRequest{Name: "Neha", Role: "therapist"})
	require.NoError(t, err)

	svc := New(Params{DB: conn, Log: log, GenID: node, Clock: clk, Repo: repository.Provide(), PatientSvc: patients, StaffSvc: staff})
	return fixture{svc: svc, ctx: ctx, patientID: patient.ID, therapistID: therapist.ID}
}

func (f fixture) create(t *testing.T, count int) *domain.Plan {
	t.Helper()
	plan, err := f.svc.CreatePlan(f.ctx, domain.CreatePlanRequest{
		PatientID:     f.patientID,
		TherapistID:   f.therapistID,
		TherapyType:   "Physiotherapy",
		StartDate:     time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC),
		StartTime:     "10:00",
		SessionsCount: count,
		IntervalDays:  1,
		SkipWeekends:  true,
	})
	require.NoError(t, err)
	return plan
}

func TestCreatePlanGeneratesSessions(t *testing.T) {
	f := newFixture(t)
	plan := f.create(t, 5)

	stored, err := f.svc.GetPlan(f.ctx, plan.ID.String())
	require.NoError(t, err)
	require.Len(t, stored.Sessions, 5)
	assert.Equal(t, domain.DefaultSessionMinutes, stored.SessionMinutes)
	for i, session := range stored.Sessions {
		assert.Equal(t, i+1, session.Sequence)
		assert.Equal(t, domain.SessionScheduled, session.Status)
		assert.NotEqual(t, time.Saturday, session.ScheduledAt.Weekday())
		assert.NotEqual(t, time.Sunday, session.ScheduledAt.Weekday())
	}
}

func TestCreatePlanRejectsBadCount(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreatePlan(f.ctx, domain.CreatePlanRequest{
		PatientID:     f.patientID,
		TherapistID:   f.therapistID,
		TherapyType:   "Physiotherapy",
		StartDate:     time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC),
		StartTime:     "10:00",
		SessionsCount: 400,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSessionsCount)
}

func TestPlanCompletesWhenNoScheduledSessionsRemain(t *testing.T) {
	f := newFixture(t)
	plan := f.create(t, 2)

	after, err := f.svc.UpdateSession(f.ctx, plan.ID.String(), plan.Sessions[0].ID.String(), domain.UpdateSessionRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, domain.PlanActive, after.Status)

	note := "patient travelling"
	after, err = f.svc.UpdateSession(f.ctx, plan.ID.String(), plan.Sessions[1].ID.String(), domain.UpdateSessionRequest{Status: "MISSED", Notes: &note})
	require.NoError(t, err)
	assert.Equal(t, domain.PlanCompleted, after.Status)
	assert.Equal(t, "patient travelling", after.Sessions[1].Notes)

	_, err = f.svc.UpdateSession(f.ctx, plan.ID.String(), plan.Sessions[1].ID.String(), domain.UpdateSessionRequest{Status: "SCHEDULED"})
	assert.ErrorIs(t, err, domain.ErrPlanClosed)
}

func TestCancelPlanCancelsRemainingSessions(t *testing.T) {
	f := newFixture(t)
	plan := f.create(t, 3)

	_, err := f.svc.UpdateSession(f.ctx, plan.ID.String(), plan.Sessions[0].ID.String(), domain.UpdateSessionRequest{Status: "COMPLETED"})
	require.NoError(t, err)

	cancelled, err := f.svc.CancelPlan(f.ctx, plan.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.PlanCancelled, cancelled.Status)
	assert.Equal(t, domain.SessionCompleted, cancelled.Sessions[0].Status)
	assert.Equal(t, domain.SessionCancelled, cancelled.Sessions[1].Status)
	assert.Equal(t, domain.SessionCancelled, cancelled.Sessions[2].Status)

	plans, err := f.svc.ListPlans(f.ctx, domain.ListPlanRequest{Status: "cancelled"})
	require.NoError(t, err)
	assert.Len(t, plans, 1)
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/appointment/domain"
	"github.com/smallbiznis/clinicdesk/internal/appointment/repository"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	"github.com/smallbiznis/clinicdesk/internal/clock"
	"github.com/smallbiznis/clinicdesk/internal/locking"
	patientdomain "github.com/smallbiznis/clinicdesk/internal/patient/domain"
	patientrepo "github.com/smallbiznis/clinicdesk/internal/patient/repository"
	patientservice "github.com/smallbiznis/clinicdesk/internal/patient/service"
	staffdomain "github.com/smallbiznis/clinicdesk/internal/staff/domain"
	staffservice "github.com/smallbiznis/clinicdesk/internal/staff/service"
	"github.com/smallbiznis/clinicdesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	svc     domain.Service
	ctx     context.Context
	patient *patientdomain.Patient
	doctor  *staffdomain.Staff
}

var base = time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Appointment{}, &patientdomain.Patient{}, &staffdomain.Staff{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(base.Add(-24 * time.Hour))
	log := zap.NewNop()

	patients := patientservice.New(patientservice.Params{DB: conn, Log: log, GenID: node, Clock: clk, Repo: patientrepo.Provide()})
	staff := staffservice.New(staffservice.Params{DB: conn, Log: log, GenID: node, Clock: clk})

	ctx := cliniccontext.WithClinicID(context.Background(), snowflake.ID(1))
	patient, err := patients.Create(ctx, patientdomain.CreatePatientRequest{FirstName: "Lakshmi"})
	require.NoError(t, err)
	doctor, err := staff.Create(ctx, staffdomain.CreateStaffRequest{Name: "Dr Shah", Role: "doctor"})
	require.NoError(t, err)

	svc := New(Params{
		DB:         conn,
		Log:        log,
		GenID:      node,
		Clock:      clk,
		Locker:     locking.NewLocal(),
		Repo:       repository.Provide(),
		PatientSvc: patients,
		StaffSvc:   staff,
	})
	return fixture{svc: svc, ctx: ctx, patient: patient, doctor: doctor}
}

func TestCreateDefaultsDuration(t *testing.T) {
	f := newFixture(t)

	appt, err := f.svc.Create(f.ctx, domain.CreateAppointmentRequest{PatientID: f.patient.ID, StaffID: f.doctor.ID, StartAt: base})
	require.NoError(t, err)
	assert.Equal(t, base.Add(30*time.Minute), appt.EndAt)
	assert.Equal(t, domain.StatusScheduled, appt.Status)
}

func TestCreateRejectsOverlap(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.ctx, domain.CreateAppointmentRequest{PatientID: f.patient.ID, StaffID: f.doctor.ID, StartAt: base})
	require.NoError(t, err)

	_, err = f.svc.Create(f.ctx, domain.CreateAppointmentRequest{PatientID: f.patient.ID, StaffID: f.doctor.ID, StartAt: base.Add(15 * time.Minute)})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Back-to-back slots do not overlap.
	_, err = f.svc.Create(f.ctx, domain.CreateAppointmentRequest{PatientID: f.patient.ID, StaffID: f.doctor.ID, StartAt: base.Add(30 * time.Minute)})
	assert.NoError(t, err)
}

func TestCancelledSlotCanBeRebooked(t *testing.T) {
	f := newFixture(t)

	appt, err := f.svc.Create(f.ctx, domain.CreateAppointmentRequest{PatientID: f.patient.ID, StaffID: f.doctor.ID, StartAt: base})
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(f.ctx, appt.ID.String(), "cancelled")
	require.NoError(t, err)

	_, err = f.svc.Create(f.ctx, domain.CreateAppointmentRequest{PatientID: f.patient.ID, StaffID: f.doctor.ID, StartAt: base})
	assert.NoError(t, err)

	_, err = f.svc.UpdateStatus(f.ctx, appt.ID.String(), "CONFIRMED")
	assert.ErrorIs(t, err, domain.ErrImmutable)
}

func TestStatusTransitions(t *testing.T) {
	f := newFixture(t)

	appt, err := f.svc.Create(f.ctx, domain.CreateAppointmentRequest{PatientID: f.patient.ID, StaffID: f.doctor.ID, StartAt: base})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(f.ctx, appt.ID.String(), "COMPLETED")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.svc.UpdateStatus(f.ctx, appt.ID.String(), "CHECKED_IN")
	require.NoError(t, err)
	done, err := f.svc.UpdateStatus(f.ctx, appt.ID.String(), "COMPLETED")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, done.Status)
}

func TestRescheduleKeepsDurationAndChecksOverlap(t *testing.T) {
	f := newFixture(t)

	end := base.Add(time.Hour)
	first, err := f.svc.Create(f.ctx, domain.CreateAppointmentRequest{PatientID: f.patient.ID, StaffID: f.doctor.ID, StartAt: base, EndAt: &end})
	require.NoError(t, err)
	_, err = f.svc.Create(f.ctx, domain.CreateAppointmentRequest{PatientID: f.patient.ID, StaffID: f.doctor.ID, StartAt: base.Add(3 * time.Hour)})
	require.NoError(t, err)

	_, err = f.svc.Reschedule(f.ctx, first.ID.String(), domain.RescheduleRequest{StartAt: base.Add(150 * time.Minute)})
	assert.ErrorIs(t, err, domain.ErrConflict)

	moved, err := f.svc.Reschedule(f.ctx, first.ID.String(), domain.RescheduleRequest{StartAt: base.Add(30 * time.Minute)})
	require.NoError(t, err)
	assert.Equal(t, time.Hour, moved.EndAt.Sub(moved.StartAt))

	from := base
	to := base.Add(24 * time.Hour)
	list, err := f.svc.List(f.ctx, domain.ListAppointmentRequest{StaffID: &f.doctor.ID, From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCreateRejectsUnknownPatient(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(f.ctx, domain.CreateAppointmentRequest{PatientID: snowflake.ID(12345), StaffID: f.doctor.ID, StartAt: base})
	assert.ErrorIs(t, err, patientdomain.ErrNotFound)
}

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
	"github.com/smallbiznis/clinicdesk/internal/prescription/domain"
	"github.com/smallbiznis/clinicdesk/internal/prescription/repository"
	staffdomain "github.com/smallbiznis/clinicdesk/internal/staff/domain"
	staffservice "github.com/smallbiznis/clinicdesk/internal/staff/service"
	"github.com/smallbiznis/clinicdesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPrescriptionLifecycle(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Prescription{}, &domain.Item{}, &patientdomain.Patient{}, &staffdomain.Staff{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	patients := patientservice.New(patientservice.Params{DB: conn, Log: log, GenID: node, Clock: clk, Repo: patientrepo.Provide()})
	staff := staffservice.New(staffservice.Params{DB: conn, Log: log, GenID: node, Clock: clk})
	svc := New(Params{DB: conn, Log: log, GenID: node, Clock: clk, Repo: repository.Provide(), PatientSvc: patients, StaffSvc: staff})

	ctx := cliniccontext.WithClinicID(context.Background(), snowflake.ID(3))
	patient, err := patients.Create(ctx, patientdomain.CreatePatientRequest{FirstName: "Kiran"})
	require.NoError(t, err)
	doctor, err := staff.Create(ctx, staffdomain.CreateStaffRequest{Name: "Dr Bose", Role: "doctor"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreatePrescriptionRequest{PatientID: patient.ID, StaffID: doctor.ID})
	assert.ErrorIs(t, err, domain.ErrEmptyItems)

	_, err = svc.Create(ctx, domain.CreatePrescriptionRequest{PatientID: patient.ID, StaffID: doctor.ID, Items: []domain.ItemInput{{Medicine: " "}}})
	assert.ErrorIs(t, err, domain.ErrInvalidMedicine)

	rx, err := svc.Create(ctx, domain.CreatePrescriptionRequest{
		PatientID: patient.ID,
		StaffID:   doctor.ID,
		Diagnosis: "Lumbar strain",
		Items: []domain.ItemInput{
			{Medicine: "Paracetamol 500mg", Dosage: "1 tab", Frequency: "TDS", DurationDays: 5},
			{Medicine: "Diclofenac gel", Frequency: "BD", DurationDays: 7},
		},
	})
	require.NoError(t, err)
	require.Len(t, rx.Items, 2)

	updated, err := svc.Update(ctx, rx.ID.String(), domain.UpdatePrescriptionRequest{
		Items: []domain.ItemInput{{Medicine: "Ibuprofen 400mg", Frequency: "BD", DurationDays: 3}},
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "Ibuprofen 400mg", updated.Items[0].Medicine)
	assert.Equal(t, "Lumbar strain", updated.Diagnosis)

	list, err := svc.ListByPatient(ctx, patient.ID.String())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, rx.ID.String()))
	_, err = svc.Get(ctx, rx.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var remaining int64
	require.NoError(t, conn.Model(&domain.Item{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

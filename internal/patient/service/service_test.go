package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	"github.com/smallbiznis/clinicdesk/internal/clock"
	"github.com/smallbiznis/clinicdesk/internal/patient/domain"
	"github.com/smallbiznis/clinicdesk/internal/patient/repository"
	"github.com/smallbiznis/clinicdesk/pkg/db"
	"github.com/smallbiznis/clinicdesk/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Patient{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(now)
	return New(Params{DB: conn, Log: zap.NewNop(), GenID: node, Clock: fake, Repo: repository.Provide()}), fake
}

func clinicCtx(id int64) context.Context {
	return cliniccontext.WithClinicID(context.Background(), snowflake.ID(id))
}

func TestCreatePatient(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := clinicCtx(1)

	dob := time.Date(1990, 4, 2, 15, 30, 0, 0, time.UTC)
	patient, err := svc.Create(ctx, domain.CreatePatientRequest{
		FirstName:   " Meera ",
		LastName:    "Iyer",
		Gender:      "Female",
		DateOfBirth: &dob,
		Email:       "Meera@Example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Meera", patient.FirstName)
	assert.Equal(t, "female", patient.Gender)
	assert.Equal(t, "meera@example.com", patient.Email)
	assert.Contains(t, patient.MRN, "MRN-")
	assert.Equal(t, 0, patient.DateOfBirth.Hour())
	assert.Equal(t, "Meera Iyer", patient.FullName())
}

func TestCreatePatientValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := clinicCtx(1)

	_, err := svc.Create(ctx, domain.CreatePatientRequest{FirstName: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidFirstName)

	_, err = svc.Create(ctx, domain.CreatePatientRequest{FirstName: "A", Gender: "robot"})
	assert.ErrorIs(t, err, domain.ErrInvalidGender)

	future := now.Add(48 * time.Hour)
	_, err = svc.Create(ctx, domain.CreatePatientRequest{FirstName: "A", DateOfBirth: &future})
	assert.ErrorIs(t, err, domain.ErrInvalidDateOfBirth)

	_, err = svc.Create(context.Background(), domain.CreatePatientRequest{FirstName: "A"})
	assert.ErrorIs(t, err, domain.ErrInvalidClinic)
}

func TestResolveIsClinicScoped(t *testing.T) {
	svc, _ := newTestService(t)

	patient, err := svc.Create(clinicCtx(1), domain.CreatePatientRequest{FirstName: "Ravi"})
	require.NoError(t, err)

	_, err = svc.Resolve(clinicCtx(2), patient.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	found, err := svc.Resolve(clinicCtx(1), patient.ID)
	require.NoError(t, err)
	assert.Equal(t, patient.ID, found.ID)
}

func TestUpdateAndSearch(t *testing.T) {
	svc, fake := newTestService(t)
	ctx := clinicCtx(1)

	a, err := svc.Create(ctx, domain.CreatePatientRequest{FirstName: "Anita", Phone: "98450"})
	require.NoError(t, err)
	fake.Advance(time.Minute)
	_, err = svc.Create(ctx, domain.CreatePatientRequest{FirstName: "Bharat", Phone: "99000"})
	require.NoError(t, err)

	phone := "11111"
	updated, err := svc.Update(ctx, a.ID.String(), domain.UpdatePatientRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "11111", updated.Phone)

	resp, err := svc.List(ctx, domain.ListPatientRequest{Search: "bhar"})
	require.NoError(t, err)
	require.Len(t, resp.Patients, 1)
	assert.Equal(t, "Bharat", resp.Patients[0].FirstName)

	all, err := svc.List(ctx, domain.ListPatientRequest{Pagination: pagination.Pagination{PageSize: 1}})
	require.NoError(t, err)
	require.Len(t, all.Patients, 1)
	assert.True(t, all.HasMore)
	assert.Equal(t, "Bharat", all.Patients[0].FirstName)
}

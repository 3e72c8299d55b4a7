package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	"github.com/smallbiznis/clinicdesk/internal/clock"
	"github.com/smallbiznis/clinicdesk/internal/config"
	"github.com/smallbiznis/clinicdesk/internal/ledger/domain"
	"github.com/smallbiznis/clinicdesk/internal/ledger/repository"
	"github.com/smallbiznis/clinicdesk/internal/locking"
	patientdomain "github.com/smallbiznis/clinicdesk/internal/patient/domain"
	patientrepo "github.com/smallbiznis/clinicdesk/internal/patient/repository"
	patientservice "github.com/smallbiznis/clinicdesk/internal/patient/service"
	"github.com/smallbiznis/clinicdesk/pkg/db"
	"github.com/smallbiznis/clinicdesk/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc     domain.Service
	db      *gorm.DB
	clock   *clock.FakeClock
	patient *patientdomain.Patient
	ctx     context.Context
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Entry{}, &patientdomain.Patient{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))

	patients := patientservice.New(patientservice.Params{DB: conn, Log: zap.NewNop(), GenID: node, Clock: fake, Repo: patientrepo.Provide()})
	ctx := cliniccontext.WithClinicID(context.Background(), snowflake.ID(7))
	patient, err := patients.Create(ctx, patientdomain.CreatePatientRequest{FirstName: "Arjun", LastName: "Rao"})
	require.NoError(t, err)

	svc := New(Params{
		DB:         conn,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      fake,
		Repo:       repository.Provide(),
		Locker:     locking.NewLocal(),
		Billing:    config.NewStaticBillingConfigHolder(config.DefaultBillingConfig()),
		PatientSvc: patients,
	})
	return fixture{svc: svc, db: conn, clock: fake, patient: patient, ctx: ctx}
}

func (f fixture) append(t *testing.T, entryType domain.EntryType, debit, credit int64) *domain.Entry {
	t.Helper()
	entry := &domain.Entry{ClinicID: 7, PatientID: f.patient.ID, Type: entryType, Debit: debit, Credit: credit}
	require.NoError(t, f.db.Transaction(func(tx *gorm.DB) error {
		return f.svc.Append(f.ctx, tx, entry)
	}))
	f.clock.Advance(time.Minute)
	return entry
}

func TestAppendChainsBalances(t *testing.T) {
	f := newFixture(t)

	first := f.append(t, domain.EntryTypeAdjustment, 1000, 0)
	assert.Equal(t, int64(1000), first.Balance)
	second := f.append(t, domain.EntryTypePayment, 0, 400)
	assert.Equal(t, int64(600), second.Balance)
	third := f.append(t, domain.EntryTypeAdjustment, 0, 600)
	assert.Equal(t, int64(0), third.Balance)

	resp, err := f.svc.ListByPatient(f.ctx, domain.ListEntriesRequest{PatientID: f.patient.ID.String()})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 3)

	var running int64
	for _, e := range resp.Entries {
		running += e.Debit - e.Credit
		assert.Equal(t, running, e.Balance)
	}
	assert.Equal(t, int64(0), resp.Balance)
}

func TestAppendRequiresExactlyOneSide(t *testing.T) {
	f := newFixture(t)

	cases := []*domain.Entry{
		{ClinicID: 7, PatientID: f.patient.ID, Type: domain.EntryTypePayment},
		{ClinicID: 7, PatientID: f.patient.ID, Type: domain.EntryTypePayment, Debit: 1, Credit: 1},
		{ClinicID: 7, PatientID: f.patient.ID, Type: domain.EntryTypePayment, Debit: -5},
	}
	for _, entry := range cases {
		err := f.db.Transaction(func(tx *gorm.DB) error { return f.svc.Append(f.ctx, tx, entry) })
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		return f.svc.Append(f.ctx, tx, &domain.Entry{ClinicID: 7, PatientID: f.patient.ID, Type: "REFUND", Credit: 1})
	})
	assert.ErrorIs(t, err, domain.ErrInvalidEntryType)
}

func TestAppendRollsBackWithCallerTx(t *testing.T) {
	f := newFixture(t)
	f.append(t, domain.EntryTypeAdjustment, 500, 0)

	_ = f.db.Transaction(func(tx *gorm.DB) error {
		require.NoError(t, f.svc.Append(f.ctx, tx, &domain.Entry{ClinicID: 7, PatientID: f.patient.ID, Type: domain.EntryTypePayment, Credit: 200}))
		return assert.AnError
	})

	resp, err := f.svc.ListByPatient(f.ctx, domain.ListEntriesRequest{PatientID: f.patient.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(500), resp.Balance)
	assert.Len(t, resp.Entries, 1)
}

func TestListByPatientPaginatesOldestFirst(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 5; i++ {
		f.append(t, domain.EntryTypeAdjustment, 100, 0)
	}

	page, err := f.svc.ListByPatient(f.ctx, domain.ListEntriesRequest{
		PatientID:  f.patient.ID.String(),
		Pagination: pagination.Pagination{PageSize: 2},
	})
	require.NoError(t, err)
	require.Len(t, page.Entries, 2)
	assert.True(t, page.HasMore)
	assert.Equal(t, int64(100), page.Entries[0].Balance)

	next, err := f.svc.ListByPatient(f.ctx, domain.ListEntriesRequest{
		PatientID:  f.patient.ID.String(),
		Pagination: pagination.Pagination{PageSize: 2, PageToken: page.NextPageToken},
	})
	require.NoError(t, err)
	require.Len(t, next.Entries, 2)
	assert.Equal(t, int64(300), next.Entries[0].Balance)
	assert.Equal(t, int64(500), next.Balance)
}

func TestCreateAdjustment(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateAdjustment(f.ctx, domain.CreateAdjustmentRequest{PatientID: f.patient.ID.String(), Debit: 100})
	assert.ErrorIs(t, err, domain.ErrInvalidReason)

	_, err = f.svc.CreateAdjustment(f.ctx, domain.CreateAdjustmentRequest{PatientID: f.patient.ID.String(), Reason: "fix"})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	entry, err := f.svc.CreateAdjustment(f.ctx, domain.CreateAdjustmentRequest{PatientID: f.patient.ID.String(), Debit: 250, Reason: "opening balance"})
	require.NoError(t, err)
	assert.Equal(t, int64(250), entry.Balance)
	assert.Equal(t, domain.EntryTypeAdjustment, entry.Type)

	other := cliniccontext.WithClinicID(context.Background(), snowflake.ID(8))
	_, err = f.svc.CreateAdjustment(other, domain.CreateAdjustmentRequest{PatientID: f.patient.ID.String(), Debit: 1, Reason: "x"})
	assert.ErrorIs(t, err, patientdomain.ErrNotFound)
}

func TestExportXLSX(t *testing.T) {
	f := newFixture(t)
	f.append(t, domain.EntryTypeAdjustment, 100, 0)

	var buf bytes.Buffer
	require.NoError(t, f.svc.ExportXLSX(f.ctx, f.patient.ID.String(), &buf))
	assert.NotZero(t, buf.Len())
}

func TestListByBillIsClinicScoped(t *testing.T) {
	f := newFixture(t)
	billID := snowflake.ID(9001)

	payment := &domain.Entry{ClinicID: 7, PatientID: f.patient.ID, BillID: &billID, Type: domain.EntryTypePayment, Credit: 400}
	require.NoError(t, f.db.Transaction(func(tx *gorm.DB) error { return f.svc.Append(f.ctx, tx, payment) }))
	f.append(t, domain.EntryTypeAdjustment, 100, 0)

	foreign := &domain.Entry{ID: 77, ClinicID: 8, PatientID: 55, BillID: &billID, Type: domain.EntryTypePayment, Credit: 1, TransactionDate: f.clock.Now()}
	require.NoError(t, f.db.Create(foreign).Error)

	entries, err := f.svc.ListByBill(f.ctx, billID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, payment.ID, entries[0].ID)

	other := cliniccontext.WithClinicID(context.Background(), snowflake.ID(8))
	entries, err = f.svc.ListByBill(other, billID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, snowflake.ID(77), entries[0].ID)

	_, err = f.svc.ListByBill(context.Background(), billID)
	assert.ErrorIs(t, err, domain.ErrInvalidClinic)
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	appointmentdomain "github.com/smallbiznis/clinicdesk/internal/appointment/domain"
	billingdomain "github.com/smallbiznis/clinicdesk/internal/billing/domain"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	"github.com/smallbiznis/clinicdesk/internal/config"
	"github.com/smallbiznis/clinicdesk/internal/dashboard/domain"
	"github.com/smallbiznis/clinicdesk/internal/dashboard/repository"
	inventorydomain "github.com/smallbiznis/clinicdesk/internal/inventory/domain"
	patientdomain "github.com/smallbiznis/clinicdesk/internal/patient/domain"
	"github.com/smallbiznis/clinicdesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2025, 6, 20, 11, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestAgeBuckets(t *testing.T) {
	buckets := config.DefaultBillingConfig().AgingBuckets
	bills := []domain.OpenBill{
		{DueDate: day(5), Balance: 100},   // not yet due
		{DueDate: day(0), Balance: 200},   // due today
		{DueDate: day(-1), Balance: 300},  // 1 day
		{DueDate: day(-30), Balance: 400}, // 30 days
		{DueDate: day(-45), Balance: 500},
		{DueDate: day(-200), Balance: 600},
	}

	aged := Age(bills, buckets, day(0))
	require.Len(t, aged, 5)
	assert.Equal(t, "current", aged[0].Label)
	assert.Equal(t, int64(2), aged[0].Count)
	assert.Equal(t, int64(300), aged[0].Amount)
	assert.Equal(t, int64(700), aged[1].Amount)
	assert.Equal(t, int64(500), aged[2].Amount)
	assert.Zero(t, aged[3].Count)
	assert.Equal(t, int64(600), aged[4].Amount)
}

func TestSummary(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&patientdomain.Patient{},
		&appointmentdomain.Appointment{},
		&billingdomain.Bill{},
		&billingdomain.Payment{},
		&inventorydomain.Item{},
	))

	clinicID := snowflake.ID(9)
	require.NoError(t, conn.Create(&[]patientdomain.Patient{
		{ID: 1, ClinicID: clinicID, MRN: "MRN-1", FirstName: "Old", Gender: "female", CreatedAt: now.AddDate(0, -2, 0), UpdatedAt: now},
		{ID: 2, ClinicID: clinicID, MRN: "MRN-2", FirstName: "New", Gender: "male", CreatedAt: now.AddDate(0, 0, -3), UpdatedAt: now},
		{ID: 3, ClinicID: 10, MRN: "MRN-3", FirstName: "Elsewhere", Gender: "male", CreatedAt: now, UpdatedAt: now},
	}).Error)

	require.NoError(t, conn.Create(&[]appointmentdomain.Appointment{
		{ID: 11, ClinicID: clinicID, PatientID: 1, StaffID: 1, StartAt: now, EndAt: now.Add(30 * time.Minute), Status: appointmentdomain.StatusScheduled, CreatedAt: now, UpdatedAt: now},
		{ID: 12, ClinicID: clinicID, PatientID: 2, StaffID: 1, StartAt: now.Add(time.Hour), EndAt: now.Add(90 * time.Minute), Status: appointmentdomain.StatusCompleted, CreatedAt: now, UpdatedAt: now},
		{ID: 13, ClinicID: clinicID, PatientID: 2, StaffID: 1, StartAt: now.AddDate(0, 0, 1), EndAt: now.AddDate(0, 0, 1).Add(time.Hour), Status: appointmentdomain.StatusScheduled, CreatedAt: now, UpdatedAt: now},
	}).Error)

	bill := func(id int64, status billingdomain.Status, total, paid int64, due time.Time) billingdomain.Bill {
		return billingdomain.Bill{
			ID: snowflake.ID(id), ClinicID: clinicID, PatientID: 1, BillNumber: "INV-" + snowflake.ID(id).String(),
			Status: status, Subtotal: total, Total: total, Paid: paid, Balance: total - paid, Currency: "INR",
			IssueDate: due.AddDate(0, 0, -30), DueDate: due, CreatedAt: now, UpdatedAt: now,
		}
	}
	require.NoError(t, conn.Create(&[]billingdomain.Bill{
		bill(21, billingdomain.StatusPending, 1000, 0, day(10)),
		bill(22, billingdomain.StatusOverdue, 5000, 2000, day(-40)),
		bill(23, billingdomain.StatusDraft, 9000, 0, day(-40)),
		bill(24, billingdomain.StatusPaid, 700, 700, day(-5)),
	}).Error)

	require.NoError(t, conn.Create(&[]billingdomain.Payment{
		{ID: 31, ClinicID: clinicID, BillID: 22, PatientID: 1, Amount: 2000, Method: billingdomain.MethodCash, PaidAt: now.AddDate(0, 0, -1), CreatedAt: now},
		{ID: 32, ClinicID: clinicID, BillID: 24, PatientID: 1, Amount: 700, Method: billingdomain.MethodUPI, PaidAt: now.AddDate(0, -1, 0), CreatedAt: now},
	}).Error)

	require.NoError(t, conn.Create(&[]inventorydomain.Item{
		{ID: 41, ClinicID: clinicID, Name: "Oil", SKU: "OIL", Unit: "ml", Quantity: 2, ReorderLevel: 5, CreatedAt: now, UpdatedAt: now},
		{ID: 42, ClinicID: clinicID, Name: "Gauze", SKU: "GZ", Unit: "roll", Quantity: 50, ReorderLevel: 5, CreatedAt: now, UpdatedAt: now},
	}).Error)

	svc := New(Params{
		Log:     zap.NewNop(),
		Repo:    repository.New(conn),
		Billing: config.NewStaticBillingConfigHolder(config.DefaultBillingConfig()),
	})

	summary, err := svc.Summary(cliniccontext.WithClinicID(context.Background(), clinicID), now)
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.Patients.Total)
	assert.Equal(t, int64(1), summary.Patients.NewThisMonth)
	assert.Equal(t, int64(2), summary.AppointmentsToday.Total)
	assert.Equal(t, int64(1), summary.AppointmentsToday.ByStatus["COMPLETED"])
	assert.Equal(t, int64(2000), summary.RevenueThisMonth)
	assert.Equal(t, int64(4000), summary.OutstandingBalance)
	assert.Equal(t, int64(1), summary.BillsByStatus["DRAFT"])
	assert.Equal(t, int64(1), summary.LowStockItems)

	require.Len(t, summary.Aging, 5)
	assert.Equal(t, int64(1000), summary.Aging[0].Amount)
	assert.Equal(t, int64(3000), summary.Aging[2].Amount)

	_, err = svc.Summary(context.Background(), now)
	assert.ErrorIs(t, err, domain.ErrInvalidClinic)
}

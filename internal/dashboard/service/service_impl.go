package service

import (
	"context"
	"time"

	clinicdomain "github.com/smallbiznis/clinicdesk/internal/clinic/domain"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	"github.com/smallbiznis/clinicdesk/internal/config"
	"github.com/smallbiznis/clinicdesk/internal/dashboard/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Repo      domain.Repository
	Billing   *config.BillingConfigHolder
	ClinicSvc clinicdomain.Service `optional:"true"`
}

type Service struct {
	log       *zap.Logger
	repo      domain.Repository
	billing   *config.BillingConfigHolder
	clinicSvc clinicdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		log:       p.Log.Named("dashboard.service"),
		repo:      p.Repo,
		billing:   p.Billing,
		clinicSvc: p.ClinicSvc,
	}
}

// Summary computes day and month windows in the clinic's timezone.
func (s *Service) Summary(ctx context.Context, now time.Time) (domain.Summary, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return domain.Summary{}, domain.ErrInvalidClinic
	}

	cfg := s.billing.Get()
	summary := domain.Summary{GeneratedAt: now.UTC(), Currency: cfg.Currency}
	loc := time.UTC
	if s.clinicSvc != nil {
		if clinic, err := s.clinicSvc.Current(ctx); err == nil {
			summary.Currency = clinic.Currency
			if tz, err := time.LoadLocation(clinic.Timezone); err == nil {
				loc = tz
			}
		}
	}

	local := now.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)
	monthStart := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var err error
	if summary.Patients.Total, err = s.repo.CountPatients(ctx, clinicID, nil); err != nil {
		return domain.Summary{}, err
	}
	since := monthStart.UTC()
	if summary.Patients.NewThisMonth, err = s.repo.CountPatients(ctx, clinicID, &since); err != nil {
		return domain.Summary{}, err
	}

	byStatus, err := s.repo.AppointmentsByStatus(ctx, clinicID, dayStart.UTC(), dayEnd.UTC())
	if err != nil {
		return domain.Summary{}, err
	}
	summary.AppointmentsToday.ByStatus = byStatus
	for _, n := range byStatus {
		summary.AppointmentsToday.Total += n
	}

	if summary.RevenueThisMonth, err = s.repo.SumPayments(ctx, clinicID, monthStart.UTC(), monthEnd.UTC()); err != nil {
		return domain.Summary{}, err
	}
	if summary.BillsByStatus, err = s.repo.BillsByStatus(ctx, clinicID); err != nil {
		return domain.Summary{}, err
	}
	if summary.LowStockItems, err = s.repo.CountLowStock(ctx, clinicID); err != nil {
		return domain.Summary{}, err
	}

	open, err := s.repo.OpenBills(ctx, clinicID)
	if err != nil {
		return domain.Summary{}, err
	}
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	summary.Aging = Age(open, cfg.AgingBuckets, today)
	for _, bill := range open {
		summary.OutstandingBalance += bill.Balance
	}

	return summary, nil
}

// Age distributes open bills over buckets by whole days past due at today.
// Bills not yet due count as zero days.
func Age(bills []domain.OpenBill, buckets []config.AgingBucket, today time.Time) []domain.AgingBucket {
	out := make([]domain.AgingBucket, len(buckets))
	for i, b := range buckets {
		out[i] = domain.AgingBucket{Label: b.Label, MinDays: b.MinDays, MaxDays: b.MaxDays}
	}

	for _, bill := range bills {
		due := bill.DueDate.UTC()
		due = time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
		days := int(today.Sub(due).Hours() / 24)
		if days < 0 {
			days = 0
		}
		for i := range out {
			if days < out[i].MinDays {
				continue
			}
			if out[i].MaxDays != nil && days > *out[i].MaxDays {
				continue
			}
			out[i].Count++
			out[i].Amount += bill.Balance
			break
		}
	}
	return out
}

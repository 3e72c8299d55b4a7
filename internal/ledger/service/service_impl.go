package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	clinicdomain "github.com/smallbiznis/clinicdesk/internal/clinic/domain"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	"github.com/smallbiznis/clinicdesk/internal/clock"
	"github.com/smallbiznis/clinicdesk/internal/config"
	"github.com/smallbiznis/clinicdesk/internal/ledger/domain"
	"github.com/smallbiznis/clinicdesk/internal/ledger/export"
	"github.com/smallbiznis/clinicdesk/internal/locking"
	"github.com/smallbiznis/clinicdesk/internal/observability/metrics"
	patientdomain "github.com/smallbiznis/clinicdesk/internal/patient/domain"
	"github.com/smallbiznis/clinicdesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	Locker     locking.Locker
	Billing    *config.BillingConfigHolder
	PatientSvc patientdomain.Service
	ClinicSvc  clinicdomain.Service `optional:"true"`
	Metrics    *metrics.Metrics     `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	locker     locking.Locker
	billing    *config.BillingConfigHolder
	patientSvc patientdomain.Service
	clinicSvc  clinicdomain.Service
	metrics    *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("ledger.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		locker:     p.Locker,
		billing:    p.Billing,
		patientSvc: p.PatientSvc,
		clinicSvc:  p.ClinicSvc,
		metrics:    p.Metrics,
	}
}

func (s *Service) Append(ctx context.Context, tx *gorm.DB, entry *domain.Entry) error {
	if entry == nil || entry.ClinicID == 0 {
		return domain.ErrInvalidClinic
	}
	if entry.PatientID == 0 {
		return domain.ErrInvalidPatient
	}
	switch entry.Type {
	case domain.EntryTypePayment, domain.EntryTypeAdjustment:
	default:
		return domain.ErrInvalidEntryType
	}
	if entry.Debit < 0 || entry.Credit < 0 {
		return domain.ErrInvalidAmount
	}
	if (entry.Debit > 0) == (entry.Credit > 0) {
		return domain.ErrInvalidAmount
	}

	prev, err := s.repo.Latest(ctx, tx, entry.ClinicID, entry.PatientID)
	if err != nil {
		return err
	}
	var opening int64
	if prev != nil {
		opening = prev.Balance
	}

	now := s.clock.Now()
	if entry.ID == 0 {
		entry.ID = s.genID.Generate()
	}
	if entry.TransactionDate.IsZero() {
		entry.TransactionDate = now
	}
	// A chain position never moves backwards in time.
	if prev != nil && entry.TransactionDate.Before(prev.TransactionDate) {
		entry.TransactionDate = prev.TransactionDate
	}
	entry.TransactionDate = entry.TransactionDate.UTC()
	entry.CreatedAt = now
	entry.Balance = opening + entry.Debit - entry.Credit

	return s.repo.Insert(ctx, tx, entry)
}

func (s *Service) ListByPatient(ctx context.Context, req domain.ListEntriesRequest) (domain.ListEntriesResponse, error) {
	clinicID, patientID, err := s.scope(ctx, req.PatientID)
	if err != nil {
		return domain.ListEntriesResponse{}, err
	}
	if _, err := s.patientSvc.Resolve(ctx, patientID); err != nil {
		return domain.ListEntriesResponse{}, err
	}

	var after *time.Time
	var afterID snowflake.ID
	if token := strings.TrimSpace(req.PageToken); token != "" {
		cursor, err := pagination.DecodeCursor(token)
		if err != nil || cursor == nil {
			return domain.ListEntriesResponse{}, domain.ErrInvalidPageToken
		}
		at, timeErr := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
		id, idErr := snowflake.ParseString(cursor.ID)
		if timeErr != nil || idErr != nil {
			return domain.ListEntriesResponse{}, domain.ErrInvalidPageToken
		}
		at = at.UTC()
		after, afterID = &at, id
	}

	size := pagination.Normalize(req.PageSize)
	entries, err := s.repo.ListAfter(ctx, s.db, clinicID, patientID, after, afterID, size+1)
	if err != nil {
		return domain.ListEntriesResponse{}, err
	}
	entries, pageInfo := pagination.Trim(entries, size, func(e *domain.Entry) string {
		return pagination.CursorFor(e.ID.String(), e.TransactionDate)
	})

	balance, err := s.balance(ctx, clinicID, patientID)
	if err != nil {
		return domain.ListEntriesResponse{}, err
	}
	return domain.ListEntriesResponse{PageInfo: pageInfo, Entries: entries, Balance: balance}, nil
}

// balance is the newest chain balance; an empty ledger is zero.
func (s *Service) balance(ctx context.Context, clinicID, patientID snowflake.ID) (int64, error) {
	latest, err := s.repo.Latest(ctx, s.db, clinicID, patientID)
	if err != nil || latest == nil {
		return 0, err
	}
	return latest.Balance, nil
}

// CreateAdjustment appends a manual correction under the patient lock.
func (s *Service) CreateAdjustment(ctx context.Context, req domain.CreateAdjustmentRequest) (*domain.Entry, error) {
	clinicID, patientID, err := s.scope(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, domain.ErrInvalidReason
	}
	if req.Debit < 0 || req.Credit < 0 || (req.Debit > 0) == (req.Credit > 0) {
		return nil, domain.ErrInvalidAmount
	}
	if _, err := s.patientSvc.Resolve(ctx, patientID); err != nil {
		return nil, err
	}

	lease, err := s.locker.Obtain(ctx, domain.PatientLockKey(patientID), s.lockTTL())
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := lease.Release(context.WithoutCancel(ctx)); releaseErr != nil {
			s.log.Warn("failed to release patient lock", zap.Error(releaseErr))
		}
	}()

	entry := &domain.Entry{
		ClinicID:    clinicID,
		PatientID:   patientID,
		Type:        domain.EntryTypeAdjustment,
		Debit:       req.Debit,
		Credit:      req.Credit,
		Description: reason,
		CreatedBy:   cliniccontext.ActorIDPtr(ctx),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.Append(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordLedgerEntry(ctx, string(entry.Type))
	s.log.Info("manual ledger adjustment",
		zap.String("patient_id", patientID.String()),
		zap.Int64("debit", entry.Debit),
		zap.Int64("credit", entry.Credit),
		zap.Int64("balance", entry.Balance),
	)
	return entry, nil
}

func (s *Service) ListByBill(ctx context.Context, billID snowflake.ID) ([]*domain.Entry, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidClinic
	}
	return s.repo.ListByBill(ctx, s.db, clinicID, billID)
}

func (s *Service) ExportXLSX(ctx context.Context, patientID string, w io.Writer) error {
	clinicID, id, err := s.scope(ctx, patientID)
	if err != nil {
		return err
	}
	patient, err := s.patientSvc.Resolve(ctx, id)
	if err != nil {
		return err
	}
	entries, err := s.repo.ListAfter(ctx, s.db, clinicID, id, nil, 0, 0)
	if err != nil {
		return err
	}

	header := export.Header{
		PatientName: patient.FullName(),
		PatientMRN:  patient.MRN,
		Currency:    s.billing.Get().Currency,
	}
	if s.clinicSvc != nil {
		if clinic, err := s.clinicSvc.Current(ctx); err == nil {
			header.ClinicName = clinic.Name
			header.Currency = clinic.Currency
		}
	}
	return export.WriteXLSX(w, header, entries)
}

func (s *Service) lockTTL() time.Duration {
	seconds := s.billing.Get().PaymentLockTTLSeconds
	if seconds <= 0 {
		seconds = 15
	}
	return time.Duration(seconds) * time.Second
}

func (s *Service) scope(ctx context.Context, patientID string) (snowflake.ID, snowflake.ID, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return 0, 0, domain.ErrInvalidClinic
	}
	id, err := snowflake.ParseString(strings.TrimSpace(patientID))
	if err != nil || id == 0 {
		return 0, 0, domain.ErrInvalidPatient
	}
	return clinicID, id, nil
}

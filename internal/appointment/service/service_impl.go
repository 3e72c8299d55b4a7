package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/appointment/domain"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	"github.com/smallbiznis/clinicdesk/internal/clock"
	"github.com/smallbiznis/clinicdesk/internal/locking"
	patientdomain "github.com/smallbiznis/clinicdesk/internal/patient/domain"
	staffdomain "github.com/smallbiznis/clinicdesk/internal/staff/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const bookingLockTTL = 5 * time.Second

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Locker     locking.Locker
	Repo       domain.Repository
	PatientSvc patientdomain.Service
	StaffSvc   staffdomain.Service
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	locker     locking.Locker
	repo       domain.Repository
	patientSvc patientdomain.Service
	staffSvc   staffdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("appointment.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		locker:     p.Locker,
		repo:       p.Repo,
		patientSvc: p.PatientSvc,
		staffSvc:   p.StaffSvc,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateAppointmentRequest) (*domain.Appointment, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidClinic
	}
	start, end, err := window(req.StartAt, req.EndAt)
	if err != nil {
		return nil, err
	}
	if _, err := s.patientSvc.Resolve(ctx, req.PatientID); err != nil {
		return nil, err
	}
	if _, err := s.staffSvc.Resolve(ctx, req.StaffID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	appt := &domain.Appointment{
		ID:        s.genID.Generate(),
		ClinicID:  clinicID,
		PatientID: req.PatientID,
		StaffID:   req.StaffID,
		StartAt:   start,
		EndAt:     end,
		Status:    domain.StatusScheduled,
		Reason:    strings.TrimSpace(req.Reason),
		Notes:     strings.TrimSpace(req.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.withStaffLock(ctx, req.StaffID, func(tx *gorm.DB) error {
		overlap, err := s.repo.HasOverlap(ctx, tx, clinicID, req.StaffID, start, end, 0)
		if err != nil {
			return err
		}
		if overlap {
			return domain.ErrConflict
		}
		return s.repo.Insert(ctx, tx, appt)
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidClinic
	}
	apptID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || apptID == 0 {
		return nil, domain.ErrInvalidID
	}
	appt, err := s.repo.FindByID(ctx, s.db, clinicID, apptID)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, domain.ErrNotFound
	}
	return appt, nil
}

func (s *Service) List(ctx context.Context, req domain.ListAppointmentRequest) ([]*domain.Appointment, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidClinic
	}
	status := domain.Status(strings.ToUpper(strings.TrimSpace(req.Status)))
	if status != "" && !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	if req.From != nil && req.To != nil && !req.To.After(*req.From) {
		return nil, domain.ErrInvalidTimeRange
	}

	items, err := s.repo.List(ctx, s.db, domain.ListFilter{
		ClinicID:  clinicID,
		PatientID: req.PatientID,
		StaffID:   req.StaffID,
		Status:    status,
		From:      req.From,
		To:        req.To,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Appointment{}
	}
	return items, nil
}

func (s *Service) Reschedule(ctx context.Context, id string, req domain.RescheduleRequest) (*domain.Appointment, error) {
	appt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status.Terminal() || appt.Status == domain.StatusCheckedIn {
		return nil, domain.ErrImmutable
	}

	var end *time.Time
	if req.EndAt != nil {
		end = req.EndAt
	} else {
		duration := appt.EndAt.Sub(appt.StartAt)
		computed := req.StartAt.Add(duration)
		end = &computed
	}
	start, finish, err := window(req.StartAt, end)
	if err != nil {
		return nil, err
	}

	err = s.withStaffLock(ctx, appt.StaffID, func(tx *gorm.DB) error {
		overlap, err := s.repo.HasOverlap(ctx, tx, appt.ClinicID, appt.StaffID, start, finish, appt.ID)
		if err != nil {
			return err
		}
		if overlap {
			return domain.ErrConflict
		}
		return s.repo.Update(ctx, tx, appt.ID, map[string]any{
			"start_at":   start,
			"end_at":     finish,
			"status":     domain.StatusScheduled,
			"updated_at": s.clock.Now(),
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status string) (*domain.Appointment, error) {
	next := domain.Status(strings.ToUpper(strings.TrimSpace(status)))
	if !next.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	appt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status == next {
		return appt, nil
	}
	if appt.Status.Terminal() {
		return nil, domain.ErrImmutable
	}
	if !appt.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidTransition
	}

	if err := s.repo.Update(ctx, s.db, appt.ID, map[string]any{
		"status":     next,
		"updated_at": s.clock.Now(),
	}); err != nil {
		return nil, err
	}
	s.log.Debug("appointment status changed",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("from", string(appt.Status)),
		zap.String("to", string(next)),
	)
	return s.Get(ctx, id)
}

// withStaffLock serializes bookings of one staff member so the overlap
// check and the write observe the same calendar.
func (s *Service) withStaffLock(ctx context.Context, staffID snowflake.ID, fn func(tx *gorm.DB) error) error {
	lease, err := s.locker.Obtain(ctx, "appointment:staff:"+staffID.String(), bookingLockTTL)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := lease.Release(context.WithoutCancel(ctx)); releaseErr != nil {
			s.log.Warn("failed to release booking lock", zap.Error(releaseErr))
		}
	}()
	return s.db.WithContext(ctx).Transaction(fn)
}

func window(start time.Time, end *time.Time) (time.Time, time.Time, error) {
	if start.IsZero() {
		return time.Time{}, time.Time{}, domain.ErrInvalidTimeRange
	}
	start = start.UTC()
	finish := start.Add(domain.DefaultDuration)
	if end != nil {
		finish = end.UTC()
	}
	if !finish.After(start) {
		return time.Time{}, time.Time{}, domain.ErrInvalidTimeRange
	}
	return start, finish, nil
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	"github.com/smallbiznis/clinicdesk/internal/clock"
	patientdomain "github.com/smallbiznis/clinicdesk/internal/patient/domain"
	staffdomain "github.com/smallbiznis/clinicdesk/internal/staff/domain"
	"github.com/smallbiznis/clinicdesk/internal/therapy/domain"
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
	PatientSvc patientdomain.Service
	StaffSvc   staffdomain.Service
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	patientSvc patientdomain.Service
	staffSvc   staffdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("therapy.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		patientSvc: p.PatientSvc,
		staffSvc:   p.StaffSvc,
	}
}

func (s *Service) CreatePlan(ctx context.Context, req domain.CreatePlanRequest) (*domain.Plan, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidClinic
	}
	therapyType := strings.TrimSpace(req.TherapyType)
	if therapyType == "" {
		return nil, domain.ErrInvalidTherapyType
	}
	if req.StartDate.IsZero() {
		return nil, domain.ErrInvalidStartDate
	}
	minutes := req.SessionMinutes
	if minutes == 0 {
		minutes = domain.DefaultSessionMinutes
	}
	if minutes < 0 || minutes > 24*60 {
		return nil, domain.ErrInvalidDuration
	}
	interval := req.IntervalDays
	if interval == 0 {
		interval = 1
	}

	slots, err := domain.Schedule(req.StartDate, req.StartTime, interval, req.SessionsCount, req.SkipWeekends)
	if err != nil {
		return nil, err
	}
	if _, err := s.patientSvc.Resolve(ctx, req.PatientID); err != nil {
		return nil, err
	}
	if _, err := s.staffSvc.Resolve(ctx, req.TherapistID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	start := req.StartDate.UTC()
	plan := &domain.Plan{
		ID:             s.genID.Generate(),
		ClinicID:       clinicID,
		PatientID:      req.PatientID,
		TherapistID:    req.TherapistID,
		TherapyType:    therapyType,
		StartDate:      time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		StartTime:      req.StartTime,
		SessionMinutes: minutes,
		SessionsCount:  req.SessionsCount,
		IntervalDays:   interval,
		SkipWeekends:   req.SkipWeekends,
		Status:         domain.PlanActive,
		Notes:          strings.TrimSpace(req.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	sessions := make([]domain.Session, 0, len(slots))
	for i, at := range slots {
		sessions = append(sessions, domain.Session{
			ID:          s.genID.Generate(),
			PlanID:      plan.ID,
			Sequence:    i + 1,
			ScheduledAt: at,
			Status:      domain.SessionScheduled,
			UpdatedAt:   now,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertPlan(ctx, tx, plan); err != nil {
			return err
		}
		return s.repo.InsertSessions(ctx, tx, sessions)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("therapy plan created",
		zap.String("plan_id", plan.ID.String()),
		zap.Int("sessions", len(sessions)),
	)
	plan.Sessions = sessions
	return plan, nil
}

func (s *Service) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidClinic
	}
	planID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || planID == 0 {
		return nil, domain.ErrInvalidID
	}
	plan, err := s.repo.FindPlan(ctx, s.db, clinicID, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrNotFound
	}
	return plan, nil
}

func (s *Service) ListPlans(ctx context.Context, req domain.ListPlanRequest) ([]*domain.Plan, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidClinic
	}
	status := domain.PlanStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	switch status {
	case "", domain.PlanActive, domain.PlanCompleted, domain.PlanCancelled:
	default:
		return nil, domain.ErrInvalidStatus
	}
	plans, err := s.repo.ListPlans(ctx, s.db, clinicID, req.PatientID, status)
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []*domain.Plan{}
	}
	return plans, nil
}

func (s *Service) UpdateSession(ctx context.Context, planID, sessionID string, req domain.UpdateSessionRequest) (*domain.Plan, error) {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.Status != domain.PlanActive {
		return nil, domain.ErrPlanClosed
	}
	sid, err := snowflake.ParseString(strings.TrimSpace(sessionID))
	if err != nil || sid == 0 {
		return nil, domain.ErrInvalidSessionID
	}
	status := domain.SessionStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if status != "" && !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := s.repo.FindSession(ctx, tx, plan.ID, sid)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrSessionNotFound
		}

		fields := map[string]any{"updated_at": s.clock.Now()}
		if status != "" {
			fields["status"] = status
		}
		if req.Notes != nil {
			fields["notes"] = strings.TrimSpace(*req.Notes)
		}
		if err := s.repo.UpdateSession(ctx, tx, session.ID, fields); err != nil {
			return err
		}

		remaining, err := s.repo.CountSessions(ctx, tx, plan.ID, domain.SessionScheduled)
		if err != nil {
			return err
		}
		if remaining == 0 {
			return s.repo.UpdatePlanStatus(ctx, tx, plan.ID, domain.PlanCompleted)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetPlan(ctx, planID)
}

func (s *Service) CancelPlan(ctx context.Context, id string) (*domain.Plan, error) {
	plan, err := s.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan.Status != domain.PlanActive {
		return nil, domain.ErrPlanClosed
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.CancelScheduledSessions(ctx, tx, plan.ID); err != nil {
			return err
		}
		return s.repo.UpdatePlanStatus(ctx, tx, plan.ID, domain.PlanCancelled)
	})
	if err != nil {
		return nil, err
	}
	return s.GetPlan(ctx, id)
}

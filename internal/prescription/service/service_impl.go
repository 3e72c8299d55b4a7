package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	"github.com/smallbiznis/clinicdesk/internal/clock"
	patientdomain "github.com/smallbiznis/clinicdesk/internal/patient/domain"
	"github.com/smallbiznis/clinicdesk/internal/prescription/domain"
	staffdomain "github.com/smallbiznis/clinicdesk/internal/staff/domain"
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
		log:        p.Log.Named("prescription.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		patientSvc: p.PatientSvc,
		staffSvc:   p.StaffSvc,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePrescriptionRequest) (*domain.Prescription, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidClinic
	}
	if len(req.Items) == 0 {
		return nil, domain.ErrEmptyItems
	}
	if _, err := s.patientSvc.Resolve(ctx, req.PatientID); err != nil {
		return nil, err
	}
	if _, err := s.staffSvc.Resolve(ctx, req.StaffID); err != nil {
		return nil, err
	}

	id := s.genID.Generate()
	items, err := s.buildItems(id, req.Items)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	issuedAt := now
	if req.IssuedAt != nil && !req.IssuedAt.IsZero() {
		issuedAt = req.IssuedAt.UTC()
	}
	rx := &domain.Prescription{
		ID:            id,
		ClinicID:      clinicID,
		PatientID:     req.PatientID,
		StaffID:       req.StaffID,
		AppointmentID: req.AppointmentID,
		Diagnosis:     strings.TrimSpace(req.Diagnosis),
		Notes:         strings.TrimSpace(req.Notes),
		IssuedAt:      issuedAt,
		Items:         items,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Insert(ctx, s.db, rx); err != nil {
		return nil, err
	}
	return rx, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Prescription, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidClinic
	}
	rxID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || rxID == 0 {
		return nil, domain.ErrInvalidID
	}
	rx, err := s.repo.FindByID(ctx, s.db, clinicID, rxID)
	if err != nil {
		return nil, err
	}
	if rx == nil {
		return nil, domain.ErrNotFound
	}
	return rx, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]*domain.Prescription, error) {
	patient, err := s.patientSvc.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListByPatient(ctx, s.db, patient.ClinicID, patient.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Prescription{}
	}
	return items, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdatePrescriptionRequest) (*domain.Prescription, error) {
	rx, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{"updated_at": s.clock.Now()}
	if req.Diagnosis != nil {
		fields["diagnosis"] = strings.TrimSpace(*req.Diagnosis)
	}
	if req.Notes != nil {
		fields["notes"] = strings.TrimSpace(*req.Notes)
	}

	var items []domain.Item
	if req.Items != nil {
		if len(req.Items) == 0 {
			return nil, domain.ErrEmptyItems
		}
		if items, err = s.buildItems(rx.ID, req.Items); err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, rx.ID, fields); err != nil {
			return err
		}
		if items != nil {
			return s.repo.ReplaceItems(ctx, tx, rx.ID, items)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	rx, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Delete(ctx, tx, rx.ID)
	})
}

func (s *Service) buildItems(prescriptionID snowflake.ID, inputs []domain.ItemInput) ([]domain.Item, error) {
	items := make([]domain.Item, 0, len(inputs))
	for i, input := range inputs {
		medicine := strings.TrimSpace(input.Medicine)
		if medicine == "" {
			return nil, domain.ErrInvalidMedicine
		}
		if input.DurationDays < 0 {
			return nil, domain.ErrInvalidDuration
		}
		items = append(items, domain.Item{
			ID:             s.genID.Generate(),
			PrescriptionID: prescriptionID,
			Medicine:       medicine,
			Dosage:         strings.TrimSpace(input.Dosage),
			Frequency:      strings.TrimSpace(input.Frequency),
			DurationDays:   input.DurationDays,
			Instructions:   strings.TrimSpace(input.Instructions),
			Position:       i,
		})
	}
	return items, nil
}

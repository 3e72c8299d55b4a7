package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	"github.com/smallbiznis/clinicdesk/internal/clock"
	"github.com/smallbiznis/clinicdesk/internal/patient/domain"
	"github.com/smallbiznis/clinicdesk/pkg/db/option"
	"github.com/smallbiznis/clinicdesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("patient.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePatientRequest) (*domain.Patient, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidClinic
	}

	now := s.clock.Now()
	firstName := strings.TrimSpace(req.FirstName)
	if firstName == "" {
		return nil, domain.ErrInvalidFirstName
	}
	gender, err := normalizeGender(req.Gender)
	if err != nil {
		return nil, err
	}
	if err := validateDOB(req.DateOfBirth, now); err != nil {
		return nil, err
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}

	id := s.genID.Generate()
	patient := &domain.Patient{
		ID:             id,
		ClinicID:       clinicID,
		MRN:            "MRN-" + strings.ToUpper(id.Base36()),
		FirstName:      firstName,
		LastName:       strings.TrimSpace(req.LastName),
		Gender:         gender,
		DateOfBirth:    dateOnly(req.DateOfBirth),
		Phone:          strings.TrimSpace(req.Phone),
		Email:          email,
		Address:        strings.TrimSpace(req.Address),
		BloodGroup:     strings.ToUpper(strings.TrimSpace(req.BloodGroup)),
		Allergies:      strings.TrimSpace(req.Allergies),
		EmergencyName:  strings.TrimSpace(req.EmergencyName),
		EmergencyPhone: strings.TrimSpace(req.EmergencyPhone),
		Notes:          strings.TrimSpace(req.Notes),
		Metadata:       datatypes.JSONMap(req.Metadata),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Insert(ctx, s.db, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Patient, error) {
	patientID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.Resolve(ctx, patientID)
}

func (s *Service) Resolve(ctx context.Context, id snowflake.ID) (*domain.Patient, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidClinic
	}
	if id == 0 {
		return nil, domain.ErrNotFound
	}
	patient, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, domain.ErrNotFound
	}
	return patient, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdatePatientRequest) (*domain.Patient, error) {
	patient, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	fields := map[string]any{}
	if req.FirstName != nil {
		firstName := strings.TrimSpace(*req.FirstName)
		if firstName == "" {
			return nil, domain.ErrInvalidFirstName
		}
		fields["first_name"] = firstName
	}
	if req.Gender != nil {
		gender, err := normalizeGender(*req.Gender)
		if err != nil {
			return nil, err
		}
		fields["gender"] = gender
	}
	if req.DateOfBirth != nil {
		if err := validateDOB(req.DateOfBirth, now); err != nil {
			return nil, err
		}
		fields["date_of_birth"] = dateOnly(req.DateOfBirth)
	}
	if req.Email != nil {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		fields["email"] = email
	}
	setTrimmed(fields, "last_name", req.LastName)
	setTrimmed(fields, "phone", req.Phone)
	setTrimmed(fields, "address", req.Address)
	setTrimmed(fields, "allergies", req.Allergies)
	setTrimmed(fields, "emergency_name", req.EmergencyName)
	setTrimmed(fields, "emergency_phone", req.EmergencyPhone)
	setTrimmed(fields, "notes", req.Notes)
	if req.BloodGroup != nil {
		fields["blood_group"] = strings.ToUpper(strings.TrimSpace(*req.BloodGroup))
	}
	if req.Metadata != nil {
		fields["metadata"] = datatypes.JSONMap(req.Metadata)
	}
	if len(fields) == 0 {
		return patient, nil
	}
	fields["updated_at"] = now

	if err := s.repo.Update(ctx, s.db, patient.ClinicID, patient.ID, fields); err != nil {
		return nil, err
	}
	return s.Resolve(ctx, patient.ID)
}

func (s *Service) List(ctx context.Context, req domain.ListPatientRequest) (domain.ListPatientResponse, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return domain.ListPatientResponse{}, domain.ErrInvalidClinic
	}
	if err := req.Pagination.Validate(); err != nil {
		return domain.ListPatientResponse{}, err
	}

	pageSize := pagination.Normalize(req.PageSize)
	items, err := s.repo.List(ctx, s.db, clinicID,
		option.Contains(req.Search, "first_name", "last_name", "phone", "mrn"),
		option.ApplyPagination(req.Pagination),
	)
	if err != nil {
		return domain.ListPatientResponse{}, err
	}

	items, pageInfo := pagination.Trim(items, pageSize, func(p *domain.Patient) string {
		return pagination.CursorFor(p.ID.String(), p.CreatedAt)
	})
	if items == nil {
		items = []*domain.Patient{}
	}
	return domain.ListPatientResponse{PageInfo: pageInfo, Patients: items}, nil
}

func parseID(id string) (snowflake.ID, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return 0, domain.ErrInvalidID
	}
	return parsed, nil
}

func normalizeGender(value string) (string, error) {
	gender := strings.ToLower(strings.TrimSpace(value))
	switch gender {
	case "", domain.GenderMale, domain.GenderFemale, domain.GenderOther:
		return gender, nil
	default:
		return "", domain.ErrInvalidGender
	}
}

func normalizeEmail(value string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(value))
	if email == "" {
		return "", nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}

func validateDOB(dob *time.Time, now time.Time) error {
	if dob == nil {
		return nil
	}
	if dob.After(now) {
		return domain.ErrInvalidDateOfBirth
	}
	return nil
}

func dateOnly(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	t := value.UTC()
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

func setTrimmed(fields map[string]any, column string, value *string) {
	if value == nil {
		return
	}
	fields[column] = strings.TrimSpace(*value)
}

package service

import (
	"context"
	"slices"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	"github.com/smallbiznis/clinicdesk/internal/clock"
	"github.com/smallbiznis/clinicdesk/internal/staff/domain"
	"github.com/smallbiznis/clinicdesk/pkg/db/option"
	"github.com/smallbiznis/clinicdesk/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	store repository.Repository[domain.Staff]
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("staff.service"),
		genID: p.GenID,
		clock: p.Clock,
		store: repository.ProvideStore[domain.Staff](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateStaffRequest) (*domain.Staff, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidClinic
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	role, err := normalizeRole(req.Role)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	staff := &domain.Staff{
		ID:             s.genID.Generate(),
		ClinicID:       clinicID,
		UserID:         req.UserID,
		Name:           name,
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          strings.TrimSpace(req.Phone),
		Role:           role,
		Specialization: strings.TrimSpace(req.Specialization),
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Create(ctx, staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Staff, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidClinic
	}
	staffID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || staffID == 0 {
		return nil, domain.ErrInvalidID
	}
	return s.find(ctx, clinicID, staffID)
}

func (s *Service) Resolve(ctx context.Context, id snowflake.ID) (*domain.Staff, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidClinic
	}
	staff, err := s.find(ctx, clinicID, id)
	if err != nil {
		return nil, err
	}
	if !staff.Active {
		return nil, domain.ErrInactive
	}
	return staff, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateStaffRequest) (*domain.Staff, error) {
	staff, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		fields["name"] = name
	}
	if req.Role != nil {
		role, err := normalizeRole(*req.Role)
		if err != nil {
			return nil, err
		}
		fields["role"] = role
	}
	if req.Email != nil {
		fields["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		fields["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Specialization != nil {
		fields["specialization"] = strings.TrimSpace(*req.Specialization)
	}
	if req.Active != nil {
		fields["active"] = *req.Active
	}
	if len(fields) == 0 {
		return staff, nil
	}
	fields["updated_at"] = s.clock.Now()

	if err := s.store.Update(ctx, staff.ID, fields); err != nil {
		return nil, err
	}
	return s.find(ctx, staff.ClinicID, staff.ID)
}

func (s *Service) Deactivate(ctx context.Context, id string) (*domain.Staff, error) {
	inactive := false
	return s.Update(ctx, id, domain.UpdateStaffRequest{Active: &inactive})
}

func (s *Service) List(ctx context.Context, req domain.ListStaffRequest) ([]*domain.Staff, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidClinic
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))

	items, err := s.store.Find(ctx, &domain.Staff{ClinicID: clinicID},
		option.ApplyCondition(role != "", option.ApplyOperator("role", option.Equal, role)),
		option.ApplyCondition(req.Active != nil, option.QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
			return db.Where("active = ?", *req.Active)
		})),
		option.WithSortBy("name", "asc"),
	)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Staff{}
	}
	return items, nil
}

func (s *Service) find(ctx context.Context, clinicID, id snowflake.ID) (*domain.Staff, error) {
	staff, err := s.store.FindOne(ctx, &domain.Staff{ID: id, ClinicID: clinicID})
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, domain.ErrNotFound
	}
	return staff, nil
}

func normalizeRole(value string) (string, error) {
	role := strings.ToLower(strings.TrimSpace(value))
	if !slices.Contains(domain.Roles, role) {
		return "", domain.ErrInvalidRole
	}
	return role, nil
}

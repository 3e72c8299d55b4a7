package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/clinicdesk/internal/clinic/domain"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("clinic.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateClinicRequest) (domain.Clinic, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Clinic{}, domain.ErrInvalidName
	}
	currency, err := normalizeCurrency(req.Currency, "INR")
	if err != nil {
		return domain.Clinic{}, err
	}
	timezone, err := normalizeTimezone(req.Timezone, "UTC")
	if err != nil {
		return domain.Clinic{}, err
	}

	clinicSlug, err := s.uniqueSlug(ctx, name)
	if err != nil {
		return domain.Clinic{}, err
	}

	now := time.Now().UTC()
	clinic := domain.Clinic{
		ID:        s.genID.Generate(),
		Name:      name,
		Slug:      clinicSlug,
		Address:   strings.TrimSpace(req.Address),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Currency:  currency,
		Timezone:  timezone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, &clinic); err != nil {
		return domain.Clinic{}, err
	}

	s.log.Info("clinic created", zap.String("clinic_id", clinic.ID.String()), zap.String("slug", clinic.Slug))
	return clinic, nil
}

func (s *Service) Current(ctx context.Context) (domain.Clinic, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return domain.Clinic{}, domain.ErrInvalidClinic
	}
	clinic, err := s.repo.FindByID(ctx, s.db, clinicID)
	if err != nil {
		return domain.Clinic{}, err
	}
	if clinic == nil {
		return domain.Clinic{}, domain.ErrNotFound
	}
	return *clinic, nil
}

func (s *Service) UpdateCurrent(ctx context.Context, req domain.UpdateClinicRequest) (domain.Clinic, error) {
	clinic, err := s.Current(ctx)
	if err != nil {
		return domain.Clinic{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Clinic{}, domain.ErrInvalidName
		}
		clinic.Name = name
	}
	if req.Address != nil {
		clinic.Address = strings.TrimSpace(*req.Address)
	}
	if req.Phone != nil {
		clinic.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		clinic.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Currency != nil {
		if clinic.Currency, err = normalizeCurrency(*req.Currency, ""); err != nil {
			return domain.Clinic{}, err
		}
	}
	if req.Timezone != nil {
		if clinic.Timezone, err = normalizeTimezone(*req.Timezone, ""); err != nil {
			return domain.Clinic{}, err
		}
	}
	clinic.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, &clinic); err != nil {
		return domain.Clinic{}, err
	}
	return clinic, nil
}

// uniqueSlug appends a numeric suffix until the slug is free.
func (s *Service) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "clinic"
	}
	candidate := base
	for i := 2; i < 100; i++ {
		existing, err := s.repo.FindBySlug(ctx, s.db, candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return fmt.Sprintf("%s-%s", base, s.genID.Generate().Base36()), nil
}

func normalizeCurrency(value, def string) (string, error) {
	value = strings.ToUpper(strings.TrimSpace(value))
	if value == "" {
		value = def
	}
	if len(value) != 3 {
		return "", domain.ErrInvalidCurrency
	}
	return value, nil
}

func normalizeTimezone(value, def string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = def
	}
	if _, err := time.LoadLocation(value); err != nil || value == "" {
		return "", domain.ErrInvalidTimezone
	}
	return value, nil
}

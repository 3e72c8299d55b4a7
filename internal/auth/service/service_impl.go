package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/auth/domain"
	"github.com/smallbiznis/clinicdesk/internal/auth/password"
	"github.com/smallbiznis/clinicdesk/internal/auth/token"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	"github.com/smallbiznis/clinicdesk/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const minPasswordLength = 8

type Params struct {
	fx.In

	Log    *zap.Logger
	Repo   domain.Repository
	Tokens *token.Issuer
	GenID  *snowflake.Node
}

type Service struct {
	log    *zap.Logger
	repo   domain.Repository
	tokens *token.Issuer
	genID  *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		log:    p.Log.Named("auth.service"),
		repo:   p.Repo,
		tokens: p.Tokens,
		genID:  p.GenID,
	}
}

func (s *Service) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		if _, hasActor := cliniccontext.ActorFromContext(ctx); hasActor || req.ClinicID == 0 {
			return nil, domain.ErrInvalidClinic
		}
		clinicID = req.ClinicID
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidEmail
	}
	if len(strings.TrimSpace(req.Password)) < minPasswordLength {
		return nil, domain.ErrWeakPassword
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:                  s.genID.Generate(),
		ClinicID:            clinicID,
		Name:                name,
		Email:               email,
		PasswordHash:        hashed,
		Role:                role,
		Active:              true,
		LastPasswordChanged: &now,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}

	s.log.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("clinic_id", clinicID.String()),
		zap.String("role", role),
	)
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]*domain.User, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidClinic
	}
	return s.repo.List(ctx, clinicID)
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active || !password.Verify(req.Password, user.PasswordHash) {
		s.log.Debug("login rejected", zap.String("user_id", user.ID.String()), zap.Bool("active", user.Active))
		return nil, domain.ErrInvalidCredentials
	}

	raw, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	fields := map[string]any{"last_login_at": now}
	if password.NeedsRehash(user.PasswordHash) {
		if hashed, err := password.Hash(req.Password); err == nil {
			fields["password_hash"] = hashed
		}
	}
	if err := s.repo.UpdateFields(ctx, user.ID, fields); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now

	return &domain.LoginResult{User: user, Token: raw, ExpiresAt: expiresAt}, nil
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (*domain.Claims, error) {
	claims, err := s.tokens.Parse(rawToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidSession
		}
		return nil, err
	}
	if !user.Active || user.ClinicID != claims.ClinicID {
		return nil, domain.ErrInvalidSession
	}

	// The stored role wins so demotions apply before the token expires.
	claims.Role = user.Role
	return claims, nil
}

func (s *Service) ChangePassword(ctx context.Context, req domain.ChangePasswordRequest) error {
	user, err := s.Me(ctx)
	if err != nil {
		return err
	}
	if !password.Verify(req.CurrentPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}
	if len(strings.TrimSpace(req.NewPassword)) < minPasswordLength {
		return domain.ErrWeakPassword
	}

	hashed, err := password.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	return s.repo.UpdateFields(ctx, user.ID, map[string]any{
		"password_hash":         hashed,
		"last_password_changed": now,
		"updated_at":            now,
	})
}

func (s *Service) Me(ctx context.Context) (*domain.User, error) {
	actor, ok := cliniccontext.ActorFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidSession
	}
	return s.repo.FindByID(ctx, actor.UserID)
}

func normalizeEmail(value string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(value))
	if email == "" {
		return "", domain.ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}

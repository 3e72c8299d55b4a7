package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/clinicdesk/internal/audit/domain"
	"github.com/smallbiznis/clinicdesk/internal/audit/masking"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	"github.com/smallbiznis/clinicdesk/internal/clock"
	obscontext "github.com/smallbiznis/clinicdesk/internal/observability/context"
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
	Repo  auditdomain.Repository
	Clock clock.Clock `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  auditdomain.Repository
	clock clock.Clock
}

func NewService(p Params) auditdomain.Service {
	c := p.Clock
	if c == nil {
		c = clock.New()
	}
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: c,
	}
}

// AuditLog writes one row. Metadata is masked first, so patient contact
// details and payment references never reach the table in clear.
func (s *Service) AuditLog(ctx context.Context, action string, targetType string, targetID *string, metadata map[string]any) error {
	action = strings.TrimSpace(action)
	if action == "" {
		return auditdomain.ErrInvalidAction
	}

	entry := s.newEntry(ctx, action, targetType, targetID, metadata)
	if err := s.repo.Insert(ctx, s.db, entry); err != nil {
		s.log.Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) newEntry(ctx context.Context, action, targetType string, targetID *string, metadata map[string]any) *auditdomain.AuditLog {
	if targetType = strings.TrimSpace(targetType); targetType == "" {
		targetType = "unknown"
	}
	meta := masking.MaskSensitive(metadata)

	entry := &auditdomain.AuditLog{
		ID:         s.genID.Generate(),
		ActorType:  string(auditdomain.ActorTypeSystem),
		Action:     action,
		TargetType: targetType,
		TargetID:   normalizePointer(targetID),
		CreatedAt:  s.clock.Now().UTC(),
	}
	if clinicID, ok := cliniccontext.ClinicIDFromContext(ctx); ok {
		entry.ClinicID = &clinicID
	}
	if actor, ok := cliniccontext.ActorFromContext(ctx); ok {
		entry.ActorType = string(auditdomain.ActorTypeUser)
		entry.ActorID = ptr(actor.UserID.String())
		meta["actor_role"] = actor.Role
	} else if actorType, actorID := obscontext.ActorFromContext(ctx); actorType == string(auditdomain.ActorTypeSystem) && actorID != "" {
		// cron callers
		entry.ActorID = ptr(actorID)
	}
	entry.Metadata = datatypes.JSONMap(meta)

	entry.RequestID = normalizePointer(ptr(obscontext.RequestIDFromContext(ctx)))
	ip, ua := obscontext.ClientFromContext(ctx)
	entry.IPAddress = normalizePointer(&ip)
	entry.UserAgent = normalizePointer(&ua)
	return entry
}

func (s *Service) List(ctx context.Context, req auditdomain.ListAuditLogRequest) (auditdomain.ListAuditLogResponse, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return auditdomain.ListAuditLogResponse{}, auditdomain.ErrInvalidClinic
	}

	if req.StartAt != nil && req.EndAt != nil && req.StartAt.After(*req.EndAt) {
		return auditdomain.ListAuditLogResponse{}, auditdomain.ErrInvalidTimeRange
	}
	if err := req.Pagination.Validate(); err != nil {
		return auditdomain.ListAuditLogResponse{}, auditdomain.ErrInvalidPageToken
	}

	pageSize := pagination.Normalize(req.PageSize)
	items, err := s.repo.List(ctx, s.db, auditdomain.ListFilter{
		ClinicID:   clinicID,
		Action:     req.Action,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		ActorType:  req.ActorType,
		ActorID:    req.ActorID,
		StartAt:    req.StartAt,
		EndAt:      req.EndAt,
	}, option.ApplyPagination(req.Pagination))
	if err != nil {
		return auditdomain.ListAuditLogResponse{}, err
	}

	items, pageInfo := pagination.Trim(items, pageSize, func(item *auditdomain.AuditLog) string {
		return pagination.CursorFor(item.ID.String(), item.CreatedAt)
	})
	if items == nil {
		items = []*auditdomain.AuditLog{}
	}

	return auditdomain.ListAuditLogResponse{PageInfo: pageInfo, AuditLogs: items}, nil
}

func ptr(value string) *string {
	return &value
}

func normalizePointer(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

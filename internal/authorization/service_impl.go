package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	auditdomain "github.com/smallbiznis/clinicdesk/internal/audit/domain"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectClinic       = "clinic"
	ObjectUser         = "user"
	ObjectPatient      = "patient"
	ObjectStaff        = "staff"
	ObjectAppointment  = "appointment"
	ObjectPrescription = "prescription"
	ObjectTherapy      = "therapy"
	ObjectDiet         = "diet"
	ObjectInventory    = "inventory"
	ObjectSocialPost   = "social_post"
	ObjectBill         = "bill"
	ObjectPayment      = "payment"
	ObjectLedger       = "ledger"
	ObjectDashboard    = "dashboard"
	ObjectAuditLog     = "audit_log"
)

const (
	ActionRead  = "read"
	ActionWrite = "write"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
	AuditSvc auditdomain.Service `optional:"true"`
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
	auditSvc auditdomain.Service
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	if err := enforcer.BuildRoleLinks(); err != nil {
		return nil, err
	}
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
		auditSvc: p.AuditSvc,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, object string, action string) error {
	actor, ok := cliniccontext.ActorFromContext(ctx)
	if !ok {
		return ErrInvalidActor
	}
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return ErrInvalidClinic
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}
	role := strings.ToLower(strings.TrimSpace(actor.Role))
	if role == "" {
		return ErrForbidden
	}

	subject := fmt.Sprintf("user:%s", actor.UserID.String())
	domain := fmt.Sprintf("clinic:%s", clinicID.String())
	if err := s.ensureGrouping(subject, "role:"+role, domain); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, domain, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.auditDenied(ctx, object, action)
		return ErrForbidden
	}
	return nil
}

// ensureGrouping keeps exactly one role link per user and clinic.
func (s *ServiceImpl) ensureGrouping(subject string, roleName string, domain string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject, "", domain)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 || rule[1] == roleName {
			continue
		}
		params := make([]interface{}, 0, len(rule))
		for _, value := range rule {
			params = append(params, value)
		}
		_, _ = s.enforcer.RemoveGroupingPolicy(params...)
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName, domain)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName, domain)
	return err
}

func (s *ServiceImpl) auditDenied(ctx context.Context, object string, action string) {
	s.log.Debug("authorization denied", zap.String("object", object), zap.String("action", action))
	if s.auditSvc == nil {
		return
	}
	targetID := object
	_ = s.auditSvc.AuditLog(ctx, "authorization.denied", "authorization", &targetID, map[string]any{
		"object": object,
		"action": action,
	})
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	rw := func(role string, objects ...string) [][]string {
		out := make([][]string, 0, len(objects))
		for _, object := range objects {
			out = append(out, []string{role, object, "*"})
		}
		return out
	}
	ro := func(role string, objects ...string) [][]string {
		out := make([][]string, 0, len(objects))
		for _, object := range objects {
			out = append(out, []string{role, object, ActionRead})
		}
		return out
	}

	var policies [][]string
	policies = append(policies, []string{"role:admin", "*", "*"})

	policies = append(policies, rw("role:doctor", ObjectPatient, ObjectAppointment, ObjectPrescription, ObjectTherapy, ObjectDiet)...)
	policies = append(policies, ro("role:doctor", ObjectBill, ObjectClinic, ObjectStaff)...)

	policies = append(policies, rw("role:receptionist", ObjectPatient, ObjectAppointment, ObjectBill, ObjectPayment, ObjectSocialPost)...)
	policies = append(policies, ro("role:receptionist", ObjectClinic, ObjectStaff, ObjectLedger)...)

	policies = append(policies, rw("role:accountant", ObjectBill, ObjectPayment, ObjectLedger, ObjectDashboard, ObjectInventory)...)
	policies = append(policies, ro("role:accountant", ObjectClinic, ObjectPatient)...)

	for _, policy := range policies {
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}

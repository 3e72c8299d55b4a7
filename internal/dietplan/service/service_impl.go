package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	"github.com/smallbiznis/clinicdesk/internal/clock"
	"github.com/smallbiznis/clinicdesk/internal/dietplan/domain"
	patientdomain "github.com/smallbiznis/clinicdesk/internal/patient/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	PatientSvc patientdomain.Service
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	patientSvc patientdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("dietplan.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		patientSvc: p.PatientSvc,
	}
}

func (s *Service) CreateTemplate(ctx context.Context, req domain.TemplateInput) (*domain.Template, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidClinic
	}
	tmpl := &domain.Template{ID: s.genID.Generate(), ClinicID: clinicID, CreatedAt: s.clock.Now()}
	if err := applyTemplateInput(tmpl, req); err != nil {
		return nil, err
	}
	tmpl.UpdatedAt = tmpl.CreatedAt
	if err := s.repo.InsertTemplate(ctx, s.db, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

func (s *Service) ListTemplates(ctx context.Context) ([]*domain.Template, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidClinic
	}
	items, err := s.repo.ListTemplates(ctx, s.db, clinicID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Template{}
	}
	return items, nil
}

func (s *Service) GetTemplate(ctx context.Context, id string) (*domain.Template, error) {
	clinicID, tmplID, err := scope(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.findTemplate(ctx, clinicID, tmplID)
}

func (s *Service) UpdateTemplate(ctx context.Context, id string, req domain.TemplateInput) (*domain.Template, error) {
	tmpl, err := s.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyTemplateInput(tmpl, req); err != nil {
		return nil, err
	}
	tmpl.UpdatedAt = s.clock.Now()
	if err := s.repo.SaveTemplate(ctx, s.db, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	tmpl, err := s.GetTemplate(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.DeleteTemplate(ctx, s.db, tmpl.ClinicID, tmpl.ID)
}

func (s *Service) CreatePlan(ctx context.Context, req domain.CreatePlanRequest) (*domain.Plan, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidClinic
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, domain.ErrInvalidDateRange
	}
	start := truncateDate(req.StartDate)
	end := truncateDate(req.EndDate)
	if end.Before(start) {
		return nil, domain.ErrInvalidDateRange
	}
	patient, err := s.patientSvc.Resolve(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}

	plan := &domain.Plan{
		ID:        s.genID.Generate(),
		ClinicID:  clinicID,
		PatientID: patient.ID,
		Title:     strings.TrimSpace(req.Title),
		StartDate: start,
		EndDate:   end,
	}

	calories := 0
	if req.CaloriesTarget != nil {
		calories = *req.CaloriesTarget
	}
	instructions := req.Instructions
	meals := req.Meals

	if req.TemplateID != nil {
		tmpl, err := s.findTemplate(ctx, clinicID, *req.TemplateID)
		if err != nil {
			return nil, err
		}
		plan.TemplateID = &tmpl.ID
		if req.CaloriesTarget == nil {
			calories = tmpl.CaloriesTarget
		}
		if strings.TrimSpace(instructions) == "" {
			instructions = tmpl.Instructions
		}
		if len(meals) == 0 {
			meals = tmpl.Meals
		}
		if plan.Title == "" {
			plan.Title = tmpl.Name
		}
	}
	if calories < 0 {
		return nil, domain.ErrInvalidCalories
	}
	if err := validateMeals(meals); err != nil {
		return nil, err
	}
	if plan.Title == "" {
		plan.Title = "Diet plan"
	}

	rendered, err := domain.RenderInstructions(instructions, domain.RenderData{
		PatientName:    patient.FullName(),
		CaloriesTarget: calories,
		StartDate:      start.Format(dateLayout),
		EndDate:        end.Format(dateLayout),
		Variables:      req.Variables,
	})
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	plan.CaloriesTarget = calories
	plan.Instructions = rendered
	plan.Meals = datatypes.NewJSONSlice(meals)
	plan.CreatedAt = now
	plan.UpdatedAt = now

	if err := s.repo.InsertPlan(ctx, s.db, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *Service) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	clinicID, planID, err := scope(ctx, id)
	if err != nil {
		return nil, err
	}
	plan, err := s.repo.FindPlan(ctx, s.db, clinicID, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrPlanNotFound
	}
	return plan, nil
}

func (s *Service) ListPlans(ctx context.Context, patientID *snowflake.ID) ([]*domain.Plan, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidClinic
	}
	items, err := s.repo.ListPlans(ctx, s.db, clinicID, patientID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Plan{}
	}
	return items, nil
}

func (s *Service) DeletePlan(ctx context.Context, id string) error {
	plan, err := s.GetPlan(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.DeletePlan(ctx, s.db, plan.ClinicID, plan.ID)
}

func (s *Service) findTemplate(ctx context.Context, clinicID, id snowflake.ID) (*domain.Template, error) {
	tmpl, err := s.repo.FindTemplate(ctx, s.db, clinicID, id)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, domain.ErrTemplateNotFound
	}
	return tmpl, nil
}

func applyTemplateInput(tmpl *domain.Template, req domain.TemplateInput) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.ErrInvalidName
	}
	if req.CaloriesTarget < 0 {
		return domain.ErrInvalidCalories
	}
	if err := validateMeals(req.Meals); err != nil {
		return err
	}
	if _, err := domain.ParseInstructions(req.Instructions); err != nil {
		return err
	}
	tmpl.Name = name
	tmpl.Description = strings.TrimSpace(req.Description)
	tmpl.CaloriesTarget = req.CaloriesTarget
	tmpl.Instructions = req.Instructions
	tmpl.Meals = datatypes.NewJSONSlice(req.Meals)
	return nil
}

func validateMeals(meals []domain.Meal) error {
	for _, meal := range meals {
		if strings.TrimSpace(meal.Name) == "" {
			return domain.ErrInvalidMeals
		}
	}
	return nil
}

func scope(ctx context.Context, id string) (snowflake.ID, snowflake.ID, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return 0, 0, domain.ErrInvalidClinic
	}
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return 0, 0, domain.ErrInvalidID
	}
	return clinicID, parsed, nil
}

func truncateDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/clinicdesk/internal/authorization"
	dietdomain "github.com/smallbiznis/clinicdesk/internal/dietplan/domain"
)

type dietTemplateRequest struct {
	Name           string            `json:"name" binding:"required"`
	Description    string            `json:"description"`
	CaloriesTarget int               `json:"calories_target" binding:"omitempty,min=0"`
	Instructions   string            `json:"instructions"`
	Meals          []dietdomain.Meal `json:"meals"`
}

type createDietPlanRequest struct {
	PatientID      string            `json:"patient_id" binding:"required"`
	TemplateID     string            `json:"template_id"`
	Title          string            `json:"title"`
	StartDate      string            `json:"start_date" binding:"required"`
	EndDate        string            `json:"end_date" binding:"required"`
	CaloriesTarget *int              `json:"calories_target"`
	Instructions   string            `json:"instructions"`
	Meals          []dietdomain.Meal `json:"meals"`
	Variables      map[string]string `json:"variables"`
}

func (r dietTemplateRequest) input() dietdomain.TemplateInput {
	return dietdomain.TemplateInput{
		Name:           r.Name,
		Description:    r.Description,
		CaloriesTarget: r.CaloriesTarget,
		Instructions:   r.Instructions,
		Meals:          r.Meals,
	}
}

func (s *Server) CreateDietTemplate(c *gin.Context) {
	var req dietTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	tpl, err := s.dietSvc.CreateTemplate(c.Request.Context(), req.input())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "diet_template.create", authorization.ObjectDiet, tpl.ID.String(), map[string]any{"name": tpl.Name})
	c.JSON(http.StatusCreated, gin.H{"data": tpl})
}

func (s *Server) ListDietTemplates(c *gin.Context) {
	items, err := s.dietSvc.ListTemplates(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetDietTemplate(c *gin.Context) {
	tpl, err := s.dietSvc.GetTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tpl})
}

func (s *Server) UpdateDietTemplate(c *gin.Context) {
	var req dietTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	tpl, err := s.dietSvc.UpdateTemplate(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "diet_template.update", authorization.ObjectDiet, tpl.ID.String(), nil)
	c.JSON(http.StatusOK, gin.H{"data": tpl})
}

func (s *Server) DeleteDietTemplate(c *gin.Context) {
	id := c.Param("id")
	if err := s.dietSvc.DeleteTemplate(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "diet_template.delete", authorization.ObjectDiet, id, nil)
	c.Status(http.StatusNoContent)
}

func (s *Server) CreateDietPlan(c *gin.Context) {
	var req createDietPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}
	patientID, err := parseSnowflakeField(req.PatientID, "patient_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	templateID, err := parseOptionalSnowflakeID(req.TemplateID)
	if err != nil {
		AbortWithError(c, newValidationError("template_id", "invalid_template_id", "invalid template_id"))
		return
	}
	startDate, err := requireTimeField(req.StartDate, "start_date")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	endDate, err := requireTimeField(req.EndDate, "end_date")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	plan, err := s.dietSvc.CreatePlan(c.Request.Context(), dietdomain.CreatePlanRequest{
		PatientID:      patientID,
		TemplateID:     templateID,
		Title:          req.Title,
		StartDate:      startDate,
		EndDate:        endDate,
		CaloriesTarget: req.CaloriesTarget,
		Instructions:   req.Instructions,
		Meals:          req.Meals,
		Variables:      req.Variables,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	meta := map[string]any{"patient_id": plan.PatientID.String()}
	if plan.TemplateID != nil {
		meta["template_id"] = plan.TemplateID.String()
	}
	s.audit(c, "diet_plan.create", authorization.ObjectDiet, plan.ID.String(), meta)
	c.JSON(http.StatusCreated, gin.H{"data": plan})
}

func (s *Server) ListDietPlans(c *gin.Context) {
	patientID, err := parseOptionalSnowflakeID(c.Query("patient_id"))
	if err != nil {
		AbortWithError(c, newValidationError("patient_id", "invalid_patient_id", "invalid patient_id"))
		return
	}

	plans, err := s.dietSvc.ListPlans(c.Request.Context(), patientID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": plans})
}

func (s *Server) GetDietPlan(c *gin.Context) {
	plan, err := s.dietSvc.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": plan})
}

func (s *Server) DeleteDietPlan(c *gin.Context) {
	id := c.Param("id")
	if err := s.dietSvc.DeletePlan(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "diet_plan.delete", authorization.ObjectDiet, id, nil)
	c.Status(http.StatusNoContent)
}

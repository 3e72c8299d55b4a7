package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/clinicdesk/internal/authorization"
	therapydomain "github.com/smallbiznis/clinicdesk/internal/therapy/domain"
)

type createTherapyPlanRequest struct {
	PatientID      string `json:"patient_id" binding:"required"`
	TherapistID    string `json:"therapist_id" binding:"required"`
	TherapyType    string `json:"therapy_type" binding:"required"`
	StartDate      string `json:"start_date" binding:"required"`
	StartTime      string `json:"start_time" binding:"required,hhmm"`
	SessionMinutes int    `json:"session_minutes" binding:"omitempty,min=1"`
	SessionsCount  int    `json:"sessions_count" binding:"required,min=1"`
	IntervalDays   int    `json:"interval_days" binding:"omitempty,min=1"`
	SkipWeekends   bool   `json:"skip_weekends"`
	Notes          string `json:"notes"`
}

type updateTherapySessionRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

func (s *Server) CreateTherapyPlan(c *gin.Context) {
	var req createTherapyPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}
	patientID, err := parseSnowflakeField(req.PatientID, "patient_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	therapistID, err := parseSnowflakeField(req.TherapistID, "therapist_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	startDate, err := requireTimeField(req.StartDate, "start_date")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	plan, err := s.therapySvc.CreatePlan(c.Request.Context(), therapydomain.CreatePlanRequest{
		PatientID:      patientID,
		TherapistID:    therapistID,
		TherapyType:    req.TherapyType,
		StartDate:      startDate,
		StartTime:      req.StartTime,
		SessionMinutes: req.SessionMinutes,
		SessionsCount:  req.SessionsCount,
		IntervalDays:   req.IntervalDays,
		SkipWeekends:   req.SkipWeekends,
		Notes:          req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "therapy_plan.create", authorization.ObjectTherapy, plan.ID.String(), map[string]any{
		"patient_id":     plan.PatientID.String(),
		"sessions_count": req.SessionsCount,
	})
	c.JSON(http.StatusCreated, gin.H{"data": plan})
}

func (s *Server) ListTherapyPlans(c *gin.Context) {
	patientID, err := parseOptionalSnowflakeID(c.Query("patient_id"))
	if err != nil {
		AbortWithError(c, newValidationError("patient_id", "invalid_patient_id", "invalid patient_id"))
		return
	}

	plans, err := s.therapySvc.ListPlans(c.Request.Context(), therapydomain.ListPlanRequest{
		PatientID: patientID,
		Status:    strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": plans})
}

func (s *Server) GetTherapyPlan(c *gin.Context) {
	plan, err := s.therapySvc.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": plan})
}

func (s *Server) UpdateTherapySession(c *gin.Context) {
	var req updateTherapySessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	sessionID := c.Param("session_id")
	plan, err := s.therapySvc.UpdateSession(c.Request.Context(), c.Param("id"), sessionID, therapydomain.UpdateSessionRequest{
		Status: req.Status,
		Notes:  req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "therapy_session.update", authorization.ObjectTherapy, plan.ID.String(), map[string]any{
		"session_id": sessionID,
		"status":     req.Status,
	})
	c.JSON(http.StatusOK, gin.H{"data": plan})
}

func (s *Server) CancelTherapyPlan(c *gin.Context) {
	plan, err := s.therapySvc.CancelPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "therapy_plan.cancel", authorization.ObjectTherapy, plan.ID.String(), nil)
	c.JSON(http.StatusOK, gin.H{"data": plan})
}

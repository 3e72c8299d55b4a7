package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	appointmentdomain "github.com/smallbiznis/clinicdesk/internal/appointment/domain"
	"github.com/smallbiznis/clinicdesk/internal/authorization"
)

type createAppointmentRequest struct {
	PatientID string     `json:"patient_id" binding:"required"`
	StaffID   string     `json:"staff_id" binding:"required"`
	StartAt   time.Time  `json:"start_at" binding:"required"`
	EndAt     *time.Time `json:"end_at"`
	Reason    string     `json:"reason"`
	Notes     string     `json:"notes"`
}

type rescheduleAppointmentRequest struct {
	StartAt time.Time  `json:"start_at" binding:"required"`
	EndAt   *time.Time `json:"end_at"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) CreateAppointment(c *gin.Context) {
	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}
	patientID, err := parseSnowflakeField(req.PatientID, "patient_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	staffID, err := parseSnowflakeField(req.StaffID, "staff_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	appt, err := s.appointmentSvc.Create(c.Request.Context(), appointmentdomain.CreateAppointmentRequest{
		PatientID: patientID,
		StaffID:   staffID,
		StartAt:   req.StartAt,
		EndAt:     req.EndAt,
		Reason:    req.Reason,
		Notes:     req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "appointment.create", authorization.ObjectAppointment, appt.ID.String(), map[string]any{
		"patient_id": appt.PatientID.String(),
		"staff_id":   appt.StaffID.String(),
	})
	c.JSON(http.StatusCreated, gin.H{"data": appt})
}

func (s *Server) ListAppointments(c *gin.Context) {
	patientID, err := parseOptionalSnowflakeID(c.Query("patient_id"))
	if err != nil {
		AbortWithError(c, newValidationError("patient_id", "invalid_patient_id", "invalid patient_id"))
		return
	}
	staffID, err := parseOptionalSnowflakeID(c.Query("staff_id"))
	if err != nil {
		AbortWithError(c, newValidationError("staff_id", "invalid_staff_id", "invalid staff_id"))
		return
	}
	from, err := parseTimeField(c.Query("from"), "from", false)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	to, err := parseTimeField(c.Query("to"), "to", true)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items, err := s.appointmentSvc.List(c.Request.Context(), appointmentdomain.ListAppointmentRequest{
		PatientID: patientID,
		StaffID:   staffID,
		Status:    strings.TrimSpace(c.Query("status")),
		From:      from,
		To:        to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetAppointment(c *gin.Context) {
	appt, err := s.appointmentSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": appt})
}

func (s *Server) RescheduleAppointment(c *gin.Context) {
	var req rescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	appt, err := s.appointmentSvc.Reschedule(c.Request.Context(), c.Param("id"), appointmentdomain.RescheduleRequest{
		StartAt: req.StartAt,
		EndAt:   req.EndAt,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "appointment.reschedule", authorization.ObjectAppointment, appt.ID.String(), map[string]any{
		"start_at": appt.StartAt,
		"end_at":   appt.EndAt,
	})
	c.JSON(http.StatusOK, gin.H{"data": appt})
}

func (s *Server) UpdateAppointmentStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	appt, err := s.appointmentSvc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "appointment.status", authorization.ObjectAppointment, appt.ID.String(), map[string]any{
		"status": string(appt.Status),
	})
	c.JSON(http.StatusOK, gin.H{"data": appt})
}

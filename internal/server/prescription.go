package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/clinicdesk/internal/authorization"
	prescriptiondomain "github.com/smallbiznis/clinicdesk/internal/prescription/domain"
)

type prescriptionItemRequest struct {
	Medicine     string `json:"medicine"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	DurationDays int    `json:"duration_days"`
	Instructions string `json:"instructions"`
}

type createPrescriptionRequest struct {
	PatientID     string                    `json:"patient_id" binding:"required"`
	StaffID       string                    `json:"staff_id" binding:"required"`
	AppointmentID string                    `json:"appointment_id"`
	Diagnosis     string                    `json:"diagnosis"`
	Notes         string                    `json:"notes"`
	IssuedAt      *time.Time                `json:"issued_at"`
	Items         []prescriptionItemRequest `json:"items"`
}

type updatePrescriptionRequest struct {
	Diagnosis *string                   `json:"diagnosis"`
	Notes     *string                   `json:"notes"`
	Items     []prescriptionItemRequest `json:"items"`
}

func (s *Server) CreatePrescription(c *gin.Context) {
	var req createPrescriptionRequest
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
	appointmentID, err := parseOptionalSnowflakeID(req.AppointmentID)
	if err != nil {
		AbortWithError(c, newValidationError("appointment_id", "invalid_appointment_id", "invalid appointment_id"))
		return
	}

	rx, err := s.prescriptionSvc.Create(c.Request.Context(), prescriptiondomain.CreatePrescriptionRequest{
		PatientID:     patientID,
		StaffID:       staffID,
		AppointmentID: appointmentID,
		Diagnosis:     req.Diagnosis,
		Notes:         req.Notes,
		IssuedAt:      req.IssuedAt,
		Items:         prescriptionItems(req.Items),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "prescription.create", authorization.ObjectPrescription, rx.ID.String(), map[string]any{
		"patient_id": rx.PatientID.String(),
		"items":      len(rx.Items),
	})
	c.JSON(http.StatusCreated, gin.H{"data": rx})
}

func (s *Server) ListPrescriptions(c *gin.Context) {
	patientID := c.Query("patient_id")
	if patientID == "" {
		AbortWithError(c, newValidationError("patient_id", "invalid_patient_id", "patient_id is required"))
		return
	}
	items, err := s.prescriptionSvc.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetPrescription(c *gin.Context) {
	rx, err := s.prescriptionSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rx})
}

func (s *Server) UpdatePrescription(c *gin.Context) {
	var req updatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	var items []prescriptiondomain.ItemInput
	if req.Items != nil {
		items = prescriptionItems(req.Items)
	}
	rx, err := s.prescriptionSvc.Update(c.Request.Context(), c.Param("id"), prescriptiondomain.UpdatePrescriptionRequest{
		Diagnosis: req.Diagnosis,
		Notes:     req.Notes,
		Items:     items,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "prescription.update", authorization.ObjectPrescription, rx.ID.String(), nil)
	c.JSON(http.StatusOK, gin.H{"data": rx})
}

func (s *Server) DeletePrescription(c *gin.Context) {
	id := c.Param("id")
	if err := s.prescriptionSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "prescription.delete", authorization.ObjectPrescription, id, nil)
	c.Status(http.StatusNoContent)
}

func prescriptionItems(in []prescriptionItemRequest) []prescriptiondomain.ItemInput {
	out := make([]prescriptiondomain.ItemInput, 0, len(in))
	for _, item := range in {
		out = append(out, prescriptiondomain.ItemInput{
			Medicine:     item.Medicine,
			Dosage:       item.Dosage,
			Frequency:    item.Frequency,
			DurationDays: item.DurationDays,
			Instructions: item.Instructions,
		})
	}
	return out
}

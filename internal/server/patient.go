package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/clinicdesk/internal/authorization"
	patientdomain "github.com/smallbiznis/clinicdesk/internal/patient/domain"
	"github.com/smallbiznis/clinicdesk/pkg/db/pagination"
)

type patientRequest struct {
	FirstName      *string        `json:"first_name"`
	LastName       *string        `json:"last_name"`
	Gender         *string        `json:"gender"`
	DateOfBirth    string         `json:"date_of_birth"`
	Phone          *string        `json:"phone"`
	Email          *string        `json:"email" binding:"omitempty,email"`
	Address        *string        `json:"address"`
	BloodGroup     *string        `json:"blood_group"`
	Allergies      *string        `json:"allergies"`
	EmergencyName  *string        `json:"emergency_contact_name"`
	EmergencyPhone *string        `json:"emergency_contact_phone"`
	Notes          *string        `json:"notes"`
	Metadata       map[string]any `json:"metadata"`
}

func (s *Server) CreatePatient(c *gin.Context) {
	var req patientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}
	dob, err := parseTimeField(req.DateOfBirth, "date_of_birth", false)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	patient, err := s.patientSvc.Create(c.Request.Context(), patientdomain.CreatePatientRequest{
		FirstName:      deref(req.FirstName),
		LastName:       deref(req.LastName),
		Gender:         deref(req.Gender),
		DateOfBirth:    dob,
		Phone:          deref(req.Phone),
		Email:          deref(req.Email),
		Address:        deref(req.Address),
		BloodGroup:     deref(req.BloodGroup),
		Allergies:      deref(req.Allergies),
		EmergencyName:  deref(req.EmergencyName),
		EmergencyPhone: deref(req.EmergencyPhone),
		Notes:          deref(req.Notes),
		Metadata:       req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "patient.create", authorization.ObjectPatient, patient.ID.String(), map[string]any{
		"mrn": patient.MRN,
	})
	c.JSON(http.StatusCreated, gin.H{"data": patient})
}

func (s *Server) ListPatients(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Search string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.patientSvc.List(c.Request.Context(), patientdomain.ListPatientRequest{
		Pagination: query.Pagination,
		Search:     strings.TrimSpace(query.Search),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp.Patients, "page_info": resp.PageInfo})
}

func (s *Server) GetPatient(c *gin.Context) {
	patient, err := s.patientSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": patient})
}

func (s *Server) UpdatePatient(c *gin.Context) {
	var req patientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}
	dob, err := parseTimeField(req.DateOfBirth, "date_of_birth", false)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	patient, err := s.patientSvc.Update(c.Request.Context(), c.Param("id"), patientdomain.UpdatePatientRequest{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Gender:         req.Gender,
		DateOfBirth:    dob,
		Phone:          req.Phone,
		Email:          req.Email,
		Address:        req.Address,
		BloodGroup:     req.BloodGroup,
		Allergies:      req.Allergies,
		EmergencyName:  req.EmergencyName,
		EmergencyPhone: req.EmergencyPhone,
		Notes:          req.Notes,
		Metadata:       req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "patient.update", authorization.ObjectPatient, patient.ID.String(), nil)
	c.JSON(http.StatusOK, gin.H{"data": patient})
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/clinicdesk/internal/authorization"
	staffdomain "github.com/smallbiznis/clinicdesk/internal/staff/domain"
)

type createStaffRequest struct {
	UserID         string `json:"user_id"`
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"omitempty,email"`
	Phone          string `json:"phone"`
	Role           string `json:"role" binding:"required"`
	Specialization string `json:"specialization"`
}

type updateStaffRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Phone          *string `json:"phone"`
	Role           *string `json:"role"`
	Specialization *string `json:"specialization"`
	Active         *bool   `json:"active"`
}

func (s *Server) CreateStaff(c *gin.Context) {
	var req createStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}
	userID, err := parseOptionalSnowflakeID(req.UserID)
	if err != nil {
		AbortWithError(c, newValidationError("user_id", "invalid_user_id", "invalid user_id"))
		return
	}

	member, err := s.staffSvc.Create(c.Request.Context(), staffdomain.CreateStaffRequest{
		UserID:         userID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Role:           req.Role,
		Specialization: req.Specialization,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "staff.create", authorization.ObjectStaff, member.ID.String(), map[string]any{"role": member.Role})
	c.JSON(http.StatusCreated, gin.H{"data": member})
}

func (s *Server) ListStaff(c *gin.Context) {
	active, err := parseOptionalBool(c.Query("active"))
	if err != nil {
		AbortWithError(c, newValidationError("active", "invalid_active", "invalid active"))
		return
	}

	members, err := s.staffSvc.List(c.Request.Context(), staffdomain.ListStaffRequest{
		Role:   strings.TrimSpace(c.Query("role")),
		Active: active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": members})
}

func (s *Server) GetStaff(c *gin.Context) {
	member, err := s.staffSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": member})
}

func (s *Server) UpdateStaff(c *gin.Context) {
	var req updateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	member, err := s.staffSvc.Update(c.Request.Context(), c.Param("id"), staffdomain.UpdateStaffRequest{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Role:           req.Role,
		Specialization: req.Specialization,
		Active:         req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "staff.update", authorization.ObjectStaff, member.ID.String(), nil)
	c.JSON(http.StatusOK, gin.H{"data": member})
}

func (s *Server) DeactivateStaff(c *gin.Context) {
	member, err := s.staffSvc.Deactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "staff.deactivate", authorization.ObjectStaff, member.ID.String(), nil)
	c.JSON(http.StatusOK, gin.H{"data": member})
}

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/clinicdesk/internal/authorization"
	clinicdomain "github.com/smallbiznis/clinicdesk/internal/clinic/domain"
)

type updateClinicRequest struct {
	Name     *string `json:"name"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Currency *string `json:"currency" binding:"omitempty,len=3"`
	Timezone *string `json:"timezone"`
}

func (s *Server) GetClinic(c *gin.Context) {
	clinic, err := s.clinicSvc.Current(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": clinic})
}

func (s *Server) UpdateClinic(c *gin.Context) {
	var req updateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	clinic, err := s.clinicSvc.UpdateCurrent(c.Request.Context(), clinicdomain.UpdateClinicRequest{
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		Email:    req.Email,
		Currency: req.Currency,
		Timezone: req.Timezone,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "clinic.update", authorization.ObjectClinic, clinic.ID.String(), nil)
	c.JSON(http.StatusOK, gin.H{"data": clinic})
}

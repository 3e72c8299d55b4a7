package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/clinicdesk/internal/authorization"
	ledgerdomain "github.com/smallbiznis/clinicdesk/internal/ledger/domain"
	"github.com/smallbiznis/clinicdesk/pkg/db/pagination"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ledgerAdjustmentRequest struct {
	Debit  int64  `json:"debit" binding:"min=0"`
	Credit int64  `json:"credit" binding:"min=0"`
	Reason string `json:"reason" binding:"required"`
}

func (s *Server) ListPatientLedger(c *gin.Context) {
	var query pagination.Pagination
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	query.PageToken = strings.TrimSpace(query.PageToken)

	resp, err := s.ledgerSvc.ListByPatient(c.Request.Context(), ledgerdomain.ListEntriesRequest{
		Pagination: query,
		PatientID:  c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      resp.Entries,
		"balance":   resp.Balance,
		"page_info": resp.PageInfo,
	})
}

// ExportPatientLedger buffers the workbook so a failed export still gets a JSON error.
func (s *Server) ExportPatientLedger(c *gin.Context) {
	patientID := c.Param("id")
	var buf bytes.Buffer
	if err := s.ledgerSvc.ExportXLSX(c.Request.Context(), patientID, &buf); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "ledger.export", authorization.ObjectLedger, patientID, nil)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"ledger-%s.xlsx\"", patientID))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (s *Server) CreateLedgerAdjustment(c *gin.Context) {
	var req ledgerAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	entry, err := s.ledgerSvc.CreateAdjustment(c.Request.Context(), ledgerdomain.CreateAdjustmentRequest{
		PatientID: c.Param("id"),
		Debit:     req.Debit,
		Credit:    req.Credit,
		Reason:    req.Reason,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "ledger.adjustment", authorization.ObjectLedger, entry.ID.String(), map[string]any{
		"patient_id": entry.PatientID.String(),
		"debit":      entry.Debit,
		"credit":     entry.Credit,
	})
	c.JSON(http.StatusCreated, gin.H{"data": entry})
}

// ListBillLedger resolves the bill first so an unknown or foreign id is a 404.
func (s *Server) ListBillLedger(c *gin.Context) {
	bill, err := s.billingSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	entries, err := s.ledgerSvc.ListByBill(c.Request.Context(), bill.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

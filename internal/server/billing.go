package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/clinicdesk/internal/authorization"
	billingdomain "github.com/smallbiznis/clinicdesk/internal/billing/domain"
	"github.com/smallbiznis/clinicdesk/pkg/db/pagination"
)

type billItemRequest struct {
	Description string `json:"description" binding:"required"`
	Quantity    int64  `json:"quantity" binding:"required,min=1"`
	UnitPrice   int64  `json:"unit_price" binding:"min=0"`
	Tax         int64  `json:"tax" binding:"min=0"`
	Discount    int64  `json:"discount" binding:"min=0"`
}

type createBillRequest struct {
	PatientID       string            `json:"patient_id" binding:"required"`
	Items           []billItemRequest `json:"items" binding:"required,dive"`
	DiscountAmount  int64             `json:"discount_amount" binding:"min=0"`
	DiscountPercent *decimal.Decimal  `json:"discount_percent"`
	TaxRate         *decimal.Decimal  `json:"tax_rate"`
	IssueDate       string            `json:"issue_date"`
	DueDate         string            `json:"due_date"`
	Notes           string            `json:"notes"`
	Issue           bool              `json:"issue"`
}

// updateBillRequest replaces the whole item set; items are never optional.
type updateBillRequest struct {
	Items           []billItemRequest `json:"items" binding:"required,min=1,dive"`
	DiscountAmount  *int64            `json:"discount_amount" binding:"omitempty,min=0"`
	DiscountPercent *decimal.Decimal  `json:"discount_percent"`
	TaxRate         *decimal.Decimal  `json:"tax_rate"`
	DueDate         string            `json:"due_date"`
	Notes           *string           `json:"notes"`
}

type listBillsQuery struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
	PatientID string `form:"patient_id"`
	Status    string `form:"status" binding:"omitempty,bill_status"`
	From      string `form:"from"`
	To        string `form:"to"`
}

type recordPaymentRequest struct {
	Amount    int64      `json:"amount" binding:"required,gt=0"`
	Method    string     `json:"method" binding:"omitempty,payment_method"`
	Reference string     `json:"reference"`
	Notes     string     `json:"notes"`
	PaidAt    *time.Time `json:"paid_at"`
}

type cancelBillRequest struct {
	Reason string `json:"reason"`
}

type billStatusRequest struct {
	Status string `json:"status" binding:"required,bill_status"`
}

func (s *Server) CreateBill(c *gin.Context) {
	var req createBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}
	issueDate, err := parseTimeField(req.IssueDate, "issue_date", false)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	dueDate, err := parseTimeField(req.DueDate, "due_date", false)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	bill, err := s.billingSvc.Create(c.Request.Context(), billingdomain.CreateBillRequest{
		PatientID:       req.PatientID,
		Items:           billItems(req.Items),
		DiscountAmount:  req.DiscountAmount,
		DiscountPercent: req.DiscountPercent,
		TaxRate:         req.TaxRate,
		IssueDate:       issueDate,
		DueDate:         dueDate,
		Notes:           req.Notes,
		Issue:           req.Issue,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "bill.create", authorization.ObjectBill, bill.ID.String(), map[string]any{
		"bill_number": bill.BillNumber,
		"patient_id":  bill.PatientID.String(),
		"total":       bill.Total,
		"status":      string(bill.Status),
	})
	c.JSON(http.StatusCreated, gin.H{"data": bill})
}

func (s *Server) ListBills(c *gin.Context) {
	var query listBillsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, bindError(err))
		return
	}
	from, err := parseTimeField(query.From, "from", false)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	to, err := parseTimeField(query.To, "to", true)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.billingSvc.List(c.Request.Context(), billingdomain.ListBillRequest{
		Pagination: pagination.Pagination{
			PageToken: strings.TrimSpace(query.PageToken),
			PageSize:  query.PageSize,
		},
		PatientID: strings.TrimSpace(query.PatientID),
		Status:    strings.TrimSpace(query.Status),
		From:      from,
		To:        to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp.Bills, "page_info": resp.PageInfo})
}

func (s *Server) GetBill(c *gin.Context) {
	bill, err := s.billingSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": bill})
}

func (s *Server) UpdateBill(c *gin.Context) {
	var req updateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}
	dueDate, err := parseTimeField(req.DueDate, "due_date", false)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var items []billingdomain.ItemInput
	if req.Items != nil {
		items = billItems(req.Items)
	}
	bill, err := s.billingSvc.Update(c.Request.Context(), c.Param("id"), billingdomain.UpdateBillRequest{
		Items:           items,
		DiscountAmount:  req.DiscountAmount,
		DiscountPercent: req.DiscountPercent,
		TaxRate:         req.TaxRate,
		DueDate:         dueDate,
		Notes:           req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "bill.update", authorization.ObjectBill, bill.ID.String(), map[string]any{
		"total":  bill.Total,
		"status": string(bill.Status),
	})
	c.JSON(http.StatusOK, gin.H{"data": bill})
}

func (s *Server) RecordBillPayment(c *gin.Context) {
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	result, err := s.billingSvc.RecordPayment(c.Request.Context(), c.Param("id"), billingdomain.RecordPaymentRequest{
		Amount:    req.Amount,
		Method:    req.Method,
		Reference: req.Reference,
		Notes:     req.Notes,
		PaidAt:    req.PaidAt,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "bill.payment", authorization.ObjectPayment, result.Payment.ID.String(), map[string]any{
		"bill_id": result.Bill.ID.String(),
		"amount":  result.Payment.Amount,
		"method":  string(result.Payment.Method),
		"status":  string(result.Bill.Status),
	})
	c.JSON(http.StatusCreated, gin.H{"data": result})
}

func (s *Server) ListBillPayments(c *gin.Context) {
	items, err := s.billingSvc.ListPayments(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) ListPatientPayments(c *gin.Context) {
	items, err := s.billingSvc.ListPatientPayments(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) CancelBill(c *gin.Context) {
	var req cancelBillRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, bindError(err))
			return
		}
	}

	bill, err := s.billingSvc.Cancel(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "bill.cancel", authorization.ObjectBill, bill.ID.String(), map[string]any{
		"reason": req.Reason,
	})
	c.JSON(http.StatusOK, gin.H{"data": bill})
}

func (s *Server) UpdateBillStatus(c *gin.Context) {
	var req billStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	bill, err := s.billingSvc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "bill.status", authorization.ObjectBill, bill.ID.String(), map[string]any{
		"status": string(bill.Status),
	})
	c.JSON(http.StatusOK, gin.H{"data": bill})
}

func (s *Server) DownloadBillPDF(c *gin.Context) {
	id := c.Param("id")
	body, err := s.billingSvc.RenderPDF(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=\"bill-%s.pdf\"", id))
	c.Data(http.StatusOK, "application/pdf", body)
}

func billItems(in []billItemRequest) []billingdomain.ItemInput {
	out := make([]billingdomain.ItemInput, 0, len(in))
	for _, item := range in {
		out = append(out, billingdomain.ItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Tax:         item.Tax,
			Discount:    item.Discount,
		})
	}
	return out
}

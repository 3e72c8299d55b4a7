package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	appointmentdomain "github.com/smallbiznis/clinicdesk/internal/appointment/domain"
	auditdomain "github.com/smallbiznis/clinicdesk/internal/audit/domain"
	authdomain "github.com/smallbiznis/clinicdesk/internal/auth/domain"
	"github.com/smallbiznis/clinicdesk/internal/authorization"
	billingdomain "github.com/smallbiznis/clinicdesk/internal/billing/domain"
	clinicdomain "github.com/smallbiznis/clinicdesk/internal/clinic/domain"
	dashboarddomain "github.com/smallbiznis/clinicdesk/internal/dashboard/domain"
	dietplandomain "github.com/smallbiznis/clinicdesk/internal/dietplan/domain"
	inventorydomain "github.com/smallbiznis/clinicdesk/internal/inventory/domain"
	ledgerdomain "github.com/smallbiznis/clinicdesk/internal/ledger/domain"
	"github.com/smallbiznis/clinicdesk/internal/locking"
	patientdomain "github.com/smallbiznis/clinicdesk/internal/patient/domain"
	prescriptiondomain "github.com/smallbiznis/clinicdesk/internal/prescription/domain"
	"github.com/smallbiznis/clinicdesk/internal/ratelimit"
	"github.com/smallbiznis/clinicdesk/pkg/db/pagination"
	socialpostdomain "github.com/smallbiznis/clinicdesk/internal/socialpost/domain"
	staffdomain "github.com/smallbiznis/clinicdesk/internal/staff/domain"
	therapydomain "github.com/smallbiznis/clinicdesk/internal/therapy/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorResponse struct {
	Error  string            `json:"error"`
	Type   string            `json:"type"`
	Errors []ValidationError `json:"errors,omitempty"`
}

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrInternal        = errors.New("internal_error")
	ErrNotFound        = errors.New("not_found")
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrTooManyRequests = errors.New("too_many_requests")
)

// notFoundErrors render as 404.
var notFoundErrors = []error{
	ErrNotFound,
	gorm.ErrRecordNotFound,
	clinicdomain.ErrNotFound,
	authdomain.ErrUserNotFound,
	patientdomain.ErrNotFound,
	staffdomain.ErrNotFound,
	appointmentdomain.ErrNotFound,
	prescriptiondomain.ErrNotFound,
	therapydomain.ErrNotFound,
	therapydomain.ErrSessionNotFound,
	dietplandomain.ErrTemplateNotFound,
	dietplandomain.ErrPlanNotFound,
	inventorydomain.ErrNotFound,
	socialpostdomain.ErrNotFound,
	billingdomain.ErrNotFound,
}

// conflictErrors render as 409.
var conflictErrors = []error{
	ErrConflict,
	authdomain.ErrUserExists,
	appointmentdomain.ErrConflict,
	inventorydomain.ErrDuplicateSKU,
	locking.ErrNotObtained,
	ratelimit.ErrJobRunning,
	billingdomain.ErrBillNumberExhausted,
}

// badRequestErrors are validation failures and business-rule rejections.
var badRequestErrors = []error{
	ErrInvalidRequest,
	auditdomain.ErrInvalidPageToken,
	pagination.ErrInvalidPageToken,
	auditdomain.ErrInvalidTimeRange,
	auditdomain.ErrInvalidAction,

	clinicdomain.ErrInvalidName,
	clinicdomain.ErrInvalidCurrency,
	clinicdomain.ErrInvalidTimezone,

	authdomain.ErrInvalidEmail,
	authdomain.ErrInvalidName,
	authdomain.ErrInvalidRole,
	authdomain.ErrWeakPassword,

	patientdomain.ErrInvalidID,
	patientdomain.ErrInvalidFirstName,
	patientdomain.ErrInvalidGender,
	patientdomain.ErrInvalidDateOfBirth,
	patientdomain.ErrInvalidEmail,

	staffdomain.ErrInvalidID,
	staffdomain.ErrInvalidName,
	staffdomain.ErrInvalidRole,
	staffdomain.ErrInactive,

	appointmentdomain.ErrInvalidID,
	appointmentdomain.ErrInvalidTimeRange,
	appointmentdomain.ErrInvalidStatus,
	appointmentdomain.ErrInvalidTransition,
	appointmentdomain.ErrImmutable,

	prescriptiondomain.ErrInvalidID,
	prescriptiondomain.ErrEmptyItems,
	prescriptiondomain.ErrInvalidMedicine,
	prescriptiondomain.ErrInvalidDuration,

	therapydomain.ErrInvalidID,
	therapydomain.ErrInvalidSessionID,
	therapydomain.ErrInvalidTherapyType,
	therapydomain.ErrInvalidStartDate,
	therapydomain.ErrInvalidStartTime,
	therapydomain.ErrInvalidSessionsCount,
	therapydomain.ErrInvalidInterval,
	therapydomain.ErrInvalidDuration,
	therapydomain.ErrInvalidStatus,
	therapydomain.ErrPlanClosed,

	dietplandomain.ErrInvalidID,
	dietplandomain.ErrInvalidName,
	dietplandomain.ErrInvalidCalories,
	dietplandomain.ErrInvalidMeals,
	dietplandomain.ErrInvalidDateRange,
	dietplandomain.ErrTemplateRender,

	inventorydomain.ErrInvalidID,
	inventorydomain.ErrInvalidName,
	inventorydomain.ErrInvalidSKU,
	inventorydomain.ErrInvalidQuantity,
	inventorydomain.ErrInvalidKind,
	inventorydomain.ErrInvalidUnitCost,
	inventorydomain.ErrInsufficientStock,

	socialpostdomain.ErrInvalidID,
	socialpostdomain.ErrInvalidContent,
	socialpostdomain.ErrInvalidPlatform,
	socialpostdomain.ErrInvalidStatus,
	socialpostdomain.ErrScheduleInPast,
	socialpostdomain.ErrPostNotEditable,
	socialpostdomain.ErrPostPublished,
	socialpostdomain.ErrPublishFailed,

	billingdomain.ErrInvalidID,
	billingdomain.ErrInvalidPatient,
	billingdomain.ErrEmptyItems,
	billingdomain.ErrInvalidDescription,
	billingdomain.ErrInvalidQuantity,
	billingdomain.ErrInvalidUnitPrice,
	billingdomain.ErrInvalidItemTax,
	billingdomain.ErrInvalidItemDiscount,
	billingdomain.ErrInvalidDiscount,
	billingdomain.ErrInvalidDiscountPercent,
	billingdomain.ErrInvalidTaxRate,
	billingdomain.ErrAmountOverflow,
	billingdomain.ErrInvalidDueDate,
	billingdomain.ErrInvalidStatus,
	billingdomain.ErrInvalidAmount,
	billingdomain.ErrInvalidPaymentMethod,
	billingdomain.ErrInvalidTimeRange,
	billingdomain.ErrBillLocked,
	billingdomain.ErrBillNotPayable,
	billingdomain.ErrPaymentExceedsBalance,
	billingdomain.ErrTotalBelowPaid,
	billingdomain.ErrBillHasPayments,
	billingdomain.ErrBillAlreadyCancelled,
	billingdomain.ErrInvalidStatusTransition,

	ledgerdomain.ErrInvalidPatient,
	ledgerdomain.ErrInvalidEntryType,
	ledgerdomain.ErrInvalidAmount,
	ledgerdomain.ErrInvalidReason,
	ledgerdomain.ErrInvalidPageToken,
}

// unauthorizedErrors render as 401. A request without clinic scope is
// treated the same as one without a session.
var unauthorizedErrors = []error{
	ErrUnauthorized,
	authdomain.ErrInvalidCredentials,
	authdomain.ErrInvalidSession,
	authdomain.ErrSessionExpired,
	authdomain.ErrUserInactive,
	authorization.ErrInvalidActor,
	authorization.ErrInvalidClinic,
	authdomain.ErrInvalidClinic,
	auditdomain.ErrInvalidClinic,
	clinicdomain.ErrInvalidClinic,
	patientdomain.ErrInvalidClinic,
	staffdomain.ErrInvalidClinic,
	appointmentdomain.ErrInvalidClinic,
	prescriptiondomain.ErrInvalidClinic,
	therapydomain.ErrInvalidClinic,
	dietplandomain.ErrInvalidClinic,
	inventorydomain.ErrInvalidClinic,
	socialpostdomain.ErrInvalidClinic,
	billingdomain.ErrInvalidClinic,
	ledgerdomain.ErrInvalidClinic,
	dashboarddomain.ErrInvalidClinic,
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, payload)
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

// bindError turns a gin binding failure into field level validation errors.
func bindError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return invalidRequestError()
	}
	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Field()
		out = append(out, ValidationError{
			Field:   field,
			Code:    "invalid_" + field,
			Message: "failed on " + fe.Tag(),
		})
	}
	return &ValidationErrors{Errors: out}
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "internal server error", Type: "internal_error"}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		code := "invalid_request"
		if len(vErr.Errors) > 0 {
			code = vErr.Errors[0].Code
		}
		return http.StatusBadRequest, errorResponse{
			Error:  code,
			Type:   "validation_error",
			Errors: vErr.Errors,
		}
	}

	if matchAny(err, unauthorizedErrors) != nil {
		return http.StatusUnauthorized, errorResponse{Error: "unauthorized", Type: "unauthorized"}
	}
	if errors.Is(err, ErrForbidden) || errors.Is(err, authorization.ErrForbidden) {
		return http.StatusForbidden, errorResponse{Error: "forbidden", Type: "forbidden"}
	}
	if errors.Is(err, ErrTooManyRequests) {
		return http.StatusTooManyRequests, errorResponse{Error: "too many requests", Type: "rate_limited"}
	}
	if target := matchAny(err, notFoundErrors); target != nil {
		return http.StatusNotFound, errorResponse{Error: codeOf(target, "not_found"), Type: "not_found"}
	}
	if target := matchAny(err, conflictErrors); target != nil {
		return http.StatusConflict, errorResponse{Error: codeOf(target, "conflict"), Type: "conflict"}
	}
	if target := matchAny(err, badRequestErrors); target != nil {
		// The code comes from the sentinel, never from wrapped detail.
		code := target.Error()
		if !isFieldCode(code) {
			return http.StatusBadRequest, errorResponse{Error: code, Type: "business_rule"}
		}
		return http.StatusBadRequest, errorResponse{
			Error: code,
			Type:  "validation_error",
			Errors: []ValidationError{{
				Field:   validationErrorField(code),
				Code:    code,
				Message: "invalid value",
			}},
		}
	}
	return http.StatusInternalServerError, errorResponse{Error: "internal server error", Type: "internal_error"}
}

// classifyErrorForLog feeds the request logger.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	return payload.Type, payload.Error
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

// matchAny returns the first target err wraps, or nil.
func matchAny(err error, targets []error) error {
	for _, target := range targets {
		if errors.Is(err, target) {
			return target
		}
	}
	return nil
}

func codeOf(target error, fallback string) string {
	if target == gorm.ErrRecordNotFound {
		return fallback
	}
	return target.Error()
}

func isFieldCode(code string) bool {
	return strings.HasPrefix(code, "invalid_") || code == "empty_items" || code == "weak_password"
}

func validationErrorField(code string) string {
	switch code {
	case "empty_items":
		return "items"
	case "weak_password":
		return "password"
	case "invalid_request":
		return "request"
	}
	return strings.TrimPrefix(code, "invalid_")
}

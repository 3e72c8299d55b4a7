package server

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	billingdomain "github.com/smallbiznis/clinicdesk/internal/billing/domain"
	therapydomain "github.com/smallbiznis/clinicdesk/internal/therapy/domain"
)

var registerOnce sync.Once

// registerValidators installs the custom binding tags on gin's validator.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("bill_status", validateBillStatus)
		_ = v.RegisterValidation("payment_method", validatePaymentMethod)
		_ = v.RegisterValidation("hhmm", validateClock)
	})
}

func jsonFieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return fld.Name
}

func validateBillStatus(fl validator.FieldLevel) bool {
	_, ok := billingdomain.ParseStatus(strings.ToUpper(strings.TrimSpace(fl.Field().String())))
	return ok
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	return billingdomain.ValidPaymentMethod(strings.ToUpper(strings.TrimSpace(fl.Field().String())))
}

func validateClock(fl validator.FieldLevel) bool {
	_, _, err := therapydomain.ParseClock(fl.Field().String())
	return err == nil
}

package service

import (
	"math"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// validate guards service inputs that do not come through gin binding
// (internal callers, tests, future transports).
var validate = newValidator()

// Decimal columns hold two fractional digits; anything finer would be
// rounded by the store, possibly onto the CHECK bound or past the precision.
const (
	scoreRule  = "min=0,max=10"
	amountRule = "gte=0.01,lte=9999999.99,cents"
	// food energy and ABV share decimal(4,2)
	percentRule = "gte=0.01,lte=99.99,cents"
	nameRule    = "required,max=100"
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = RegisterValidations(v)
	return v
}

// RegisterValidations adds the custom tags used by request and service rules.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("cents", validateCents)
}

// validateCents accepts floats with at most two decimal places.
func validateCents(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.Float32 && f.Kind() != reflect.Float64 {
		return false
	}
	scaled := f.Float() * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}

func checkVar(field string, value any, rule string) error {
	if err := validate.Var(value, rule); err != nil {
		return validationErr("%s is invalid (%s)", field, rule)
	}
	return nil
}

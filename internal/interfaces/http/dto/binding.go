package dto

import (
	"errors"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	panPattern   = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
)

// RegisterValidations adds the Indian tax identifier formats to gin's
// binding validator. Must run once before the engine serves requests.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	if err := v.RegisterValidation("pan", validPAN); err != nil {
		return err
	}
	return v.RegisterValidation("gstin", validGSTIN)
}

func validPAN(fl validator.FieldLevel) bool {
	return panPattern.MatchString(fl.Field().String())
}

func validGSTIN(fl validator.FieldLevel) bool {
	return gstinPattern.MatchString(fl.Field().String())
}

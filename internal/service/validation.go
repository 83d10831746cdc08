package service

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// singleLineTag rejects values that would not survive as one record line.
const singleLineTag = "singleline"

func newValidator(validate *validator.Validate) *validator.Validate {
	if validate == nil {
		validate = validator.New()
	}
	_ = validate.RegisterValidation(singleLineTag, func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), "\r\n")
	})
	return validate
}

package utils

import (
	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()

	// Custom validations
	v.RegisterValidation("difficulty", validateDifficulty)

	return &Validator{
		validate: v,
	}
}

func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

func validateDifficulty(fl validator.FieldLevel) bool {
	difficulty := fl.Field().String()
	supported := map[string]bool{
		"easy":      true,
		"medium":    true,
		"difficult": true,
	}
	return supported[difficulty]
}

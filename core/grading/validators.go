package grading

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/lms/core"
)

var (
	letterTag  = "letter"
	letterText = "invalid letter grade"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(letterTag, letterValidation)
	core.RegisterCustomTranslation(validate, translator, letterTag, letterText)
}

func letterValidation(fl validator.FieldLevel) bool {
	return Letter(fl.Field().String()).IsValid()
}

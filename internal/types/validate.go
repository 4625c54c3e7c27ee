package types

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Handle names are counted in runes after trimming.
const (
	MinHandleNameLen = 2
	MaxHandleNameLen = 20
)

var validate = NewValidator()

// NewValidator returns a validator that also knows the custom tags used by the
// request types: notblank (non-empty after trimming) and handlename.
func NewValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "handlename", validHandleName)
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func validHandleName(fl validator.FieldLevel) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(fl.Field().String()))
	return n >= MinHandleNameLen && n <= MaxHandleNameLen
}

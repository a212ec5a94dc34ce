package utils

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// IsEmail reports whether s looks like a syntactically valid email address.
func IsEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

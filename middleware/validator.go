package middleware

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct checks request bodies inside handlers.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Package validator adapts go-playground/validator to echo.
package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// CustomValidator implements echo.Validator
type CustomValidator struct {
	validate *validator.Validate
}

// New creates a validator that reports JSON field names
func New() *CustomValidator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	return &CustomValidator{validate: validate}
}

// Validate validates a bound request struct
func (v *CustomValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return errors.New(describe(fieldErrs))
		}

		return errors.WithStack(err)
	}

	return nil
}

func describe(fieldErrs validator.ValidationErrors) string {
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			messages = append(messages, fe.Namespace()+" failed "+fe.Tag()+"="+fe.Param())
		} else {
			messages = append(messages, fe.Namespace()+" failed "+fe.Tag())
		}
	}

	return strings.Join(messages, "; ")
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}

	return name
}

package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rpupo63/blog-backend/errs"
)

// All input validations should be added here.

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	// Report json field names so errors match the request payload
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct checks validate tags on a DTO and reports the first failure
func validateStruct(dto any) error {
	return toApiErr(validate.Struct(dto), "")
}

// validateTagNames requires at least one tag name and no blank names
func validateTagNames(names []string) error {
	return toApiErr(validate.Var(names, "required,min=1,dive,notblank"), "tags")
}

func toApiErr(err error, field string) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return errs.NewValidationError(field, err.Error())
	}

	fe := validationErrs[0]
	name := fe.Field()
	if name == "" || strings.HasPrefix(name, "[") {
		name = field + name
	}
	switch fe.Tag() {
	case "required", "min", "notblank":
		return errs.NewMissingRequiredFieldError(name)
	default:
		return errs.NewInvalidFieldError(name, fe.Tag())
	}
}

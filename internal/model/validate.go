package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mesbrj/teams-api/internal/errs"
)

// validate is shared by schema coercion and the payload Validate methods.
// Field names in errors come from the json tag ("team_name", not "TeamName").
var validate = NewValidator("json")

// NewValidator returns a validator that reports field names from the first
// of tags present on the struct field.
func NewValidator(tags ...string) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range tags {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return field.Name
	})
	return v
}

// validateStruct runs the struct tags of v and converts failures into a
// validation error listing every field.
func validateStruct(v any, what string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errs.Validation(fmt.Sprintf("invalid %s payload: %s", what, err))
	}
	return errs.Validation(fmt.Sprintf("invalid %s payload", what), FieldErrors(validationErrors)...)
}

// FieldErrors converts validator failures into API field errors.
func FieldErrors(validationErrors validator.ValidationErrors) []errs.FieldError {
	out := make([]errs.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		out = append(out, errs.FieldError{
			Field: strings.ToLower(fe.Field()),
			Error: DescribeFieldError(fe),
		})
	}
	return out
}

// DescribeFieldError renders a client-facing message for a failed tag.
func DescribeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "dive":
		return "some items are invalid"
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed on %s:%s", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}

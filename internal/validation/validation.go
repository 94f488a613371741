// Package validation binds request data and turns validation failures into
// 400 responses with per-field errors.
package validation

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mesbrj/teams-api/internal/errs"
	"github.com/mesbrj/teams-api/internal/model"
)

// Validator is shared by request types. Field names in errors come from the
// json, query or param tag, in that order.
var Validator = model.NewValidator("json", "query", "param")

// Validatable is implemented by request payload types that know how to validate themselves.
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue for a specific field.
// This is used for validation errors that cannot be expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// BindAndValidate binds request data into payload and validates it.
// payload must be a pointer.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError(bindErrorMessage(err), false, nil, nil, nil)
	}

	if err := payload.Validate(); err != nil {
		msg, fieldErrors := extractValidationError(err)
		return errs.NewBadRequestError(msg, true, nil, fieldErrors, nil)
	}

	return nil
}

func bindErrorMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok && msg != "" {
			return msg
		}
		return http.StatusText(he.Code)
	}
	return "invalid request"
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var domainErr *errs.Error
	if errors.As(err, &domainErr) {
		return domainErr.Message, domainErr.Fields
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return "Validation failed", model.FieldErrors(validationErrors)
	}

	var custom CustomValidationErrors
	if errors.As(err, &custom) {
		fieldErrors := make([]errs.FieldError, 0, len(custom))
		for _, ce := range custom {
			fieldErrors = append(fieldErrors, errs.FieldError{Field: ce.Field, Error: ce.Message})
		}
		return "Validation failed", fieldErrors
	}

	return fmt.Sprintf("Validation failed: %s", err), nil
}

// ValidateStruct runs Validator over v. Request types call it from their
// Validate method.
func ValidateStruct(v any) error {
	return Validator.Struct(v)
}

// ParseUUID parses a path parameter, reporting failures against field.
func ParseUUID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, CustomValidationErrors{{Field: field, Message: "must be a valid UUID"}}
	}
	return id, nil
}

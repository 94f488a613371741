package errs

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Kind classifies a domain error raised by the record access core.
type Kind string

const (
	KindUnsupportedEntity    Kind = "UNSUPPORTED_ENTITY"
	KindUnsupportedTable     Kind = "UNSUPPORTED_TABLE"
	KindUnsupportedOperation Kind = "UNSUPPORTED_OPERATION"
	KindUnresolvedReference  Kind = "UNRESOLVED_REFERENCE"
	KindValidationFailure    Kind = "VALIDATION_FAILURE"
	KindNotFound             Kind = "NOT_FOUND"
	KindUnsupportedFilter    Kind = "UNSUPPORTED_FILTER"
	KindStorageFault         Kind = "STORAGE_FAULT"
)

// Error is a domain error. Every failure of the repository, the validation
// hooks and the data manager is one of these, so a caller only has to look at
// Kind to decide what went wrong.
type Error struct {
	Kind    Kind
	Message string

	// Fields lists per-field failures for KindValidationFailure.
	Fields []FieldError

	// Err is the underlying cause (driver error for KindStorageFault).
	Err error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so the sentinels below work with
// errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrUnsupportedEntity    = &Error{Kind: KindUnsupportedEntity}
	ErrUnsupportedTable     = &Error{Kind: KindUnsupportedTable}
	ErrUnsupportedOperation = &Error{Kind: KindUnsupportedOperation}
	ErrUnresolvedReference  = &Error{Kind: KindUnresolvedReference}
	ErrValidationFailure    = &Error{Kind: KindValidationFailure}
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrUnsupportedFilter    = &Error{Kind: KindUnsupportedFilter}
	ErrStorageFault         = &Error{Kind: KindStorageFault}
)

func UnsupportedEntity(entity string) *Error {
	return &Error{Kind: KindUnsupportedEntity, Message: fmt.Sprintf("entity '%s' is not supported", entity)}
}

func UnsupportedTable(table string) *Error {
	return &Error{Kind: KindUnsupportedTable, Message: fmt.Sprintf("table '%s' does not exist", table)}
}

func UnsupportedOperation(operation string) *Error {
	return &Error{Kind: KindUnsupportedOperation, Message: fmt.Sprintf("operation '%s' is not supported", operation)}
}

func UnresolvedReference(format string, args ...any) *Error {
	return &Error{Kind: KindUnresolvedReference, Message: fmt.Sprintf(format, args...)}
}

// Validation builds a KindValidationFailure error. fields may be empty when
// the failure is not tied to a single attribute.
func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidationFailure, Message: message, Fields: fields}
}

// NotFound reports a missing update/delete target. identifier is already
// formatted, e.g. "id '7c1…'" or "name 'backend'".
func NotFound(table, identifier string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("record with %s not found in table '%s'", identifier, table),
	}
}

func UnsupportedFilter(table string) *Error {
	return &Error{Kind: KindUnsupportedFilter, Message: fmt.Sprintf("table '%s' does not support filtering by name", table)}
}

// StorageFault normalizes a driver failure. The driver message is kept in
// Message and the original error (with a stack attached) in Err.
// Nil in, nil out; an error that already is a domain error is returned as is.
func StorageFault(err error) error {
	if err == nil {
		return nil
	}
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return err
	}
	return &Error{
		Kind:    KindStorageFault,
		Message: "storage error: " + err.Error(),
		Err:     errors.WithStack(err),
	}
}

// ToHTTP maps a domain error onto the API error shape.
//
// Storage faults map to a generic 500 here; sqlerr.HandleError inspects the
// driver cause first and turns constraint violations into 400s.
func ToHTTP(e *Error) *HTTPError {
	code := string(e.Kind)

	switch e.Kind {
	case KindValidationFailure:
		return NewBadRequestError(e.Message, true, &code, e.Fields, nil)
	case KindUnsupportedEntity, KindUnsupportedTable, KindUnsupportedOperation, KindUnsupportedFilter:
		return NewBadRequestError(e.Message, true, &code, nil, nil)
	case KindUnresolvedReference:
		return NewUnprocessableEntityError(e.Message, &code)
	case KindNotFound:
		return NewNotFoundError(e.Message, true, &code)
	default:
		return &HTTPError{
			Code:    code,
			Message: http.StatusText(http.StatusInternalServerError),
			Status:  http.StatusInternalServerError,
		}
	}
}

package normalize

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes normalization failures.
type ErrorCode string

const (
	// ErrCodeMissing indicates a required field is absent or null.
	ErrCodeMissing ErrorCode = "MISSING_FIELD"

	// ErrCodeType indicates a field has the wrong JSON type.
	ErrCodeType ErrorCode = "INVALID_TYPE"

	// ErrCodeParse indicates a field value could not be parsed.
	ErrCodeParse ErrorCode = "UNPARSEABLE"
)

// FieldError describes why a raw record was rejected.
type FieldError struct {
	Code    ErrorCode
	Field   string
	Message string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: field %q: %s", e.Code, e.Field, e.Message)
}

// IsFieldError reports whether err is (or wraps) a *FieldError.
func IsFieldError(err error) bool {
	var fe *FieldError
	return errors.As(err, &fe)
}

func missing(field string) *FieldError {
	return &FieldError{Code: ErrCodeMissing, Field: field, Message: "required field is absent"}
}

func wrongType(field string, v any) *FieldError {
	return &FieldError{Code: ErrCodeType, Field: field, Message: fmt.Sprintf("unexpected type %T", v)}
}

func unparseable(field string, v any, err error) *FieldError {
	msg := fmt.Sprintf("cannot parse %q", fmt.Sprint(v))
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &FieldError{Code: ErrCodeParse, Field: field, Message: msg}
}

package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidInput is the kind of ValidationError returned for malformed operator input.
var ErrInvalidInput = errors.New("invalid input")

// FieldError is used to indicate an error with a specific input field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a business-rule rejection. Err is the kind (a sentinel
// callers can match with errors.Is), Msg the operator-facing explanation.
type ValidationError struct {
	Err    error
	Msg    string
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func NewValidationErrorf(err error, format string, args ...interface{}) error {
	return &ValidationError{Err: err, Msg: fmt.Sprintf(format, args...)}
}

func (err ValidationError) Error() string {
	if err.Msg != "" {
		return err.Msg
	}
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error { return err.Err }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// InfrastructureError marks a failure of the database or another collaborator,
// as opposed to a rejected request. Op names what was being attempted.
type InfrastructureError struct {
	Op  string
	Err error
}

func NewInfrastructureError(op string, err error) error {
	return &InfrastructureError{Op: op, Err: err}
}

func (err InfrastructureError) Error() string {
	return err.Op + ": " + err.Err.Error()
}

func (err InfrastructureError) Unwrap() error { return err.Err }

func IsInfrastructure(err error) bool {
	var ie *InfrastructureError
	return errors.As(err, &ie)
}

// Package apperr is the application error taxonomy shared by ingestion,
// reporting and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"

	"github.com/Skryldev/hiring-api/db"
)

// Code categorizes an application error.
type Code string

const (
	// CodeValidation marks malformed input: CSV shape, integer coercion,
	// record constraints, bad query parameters.
	CodeValidation Code = "validation"
	// CodeConflict marks a unique or primary key violation.
	CodeConflict Code = "conflict"
	// CodeInternal is everything else.
	CodeInternal Code = "internal"
)

// Error is an application error with a code, a message and an optional
// cause. It supports errors.Is and errors.As through Unwrap.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	switch {
	case e.Message == "" && e.Cause != nil:
		return e.Cause.Error()
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Validationf returns a validation error with a formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches code to err without changing its message.
// Wrap returns nil when err is nil.
func Wrap(code Code, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Cause: err}
}

// FromDB classifies a store error. Duplicate keys become conflicts; any
// other failure is internal. An error that already carries a code is
// returned unchanged.
func FromDB(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	if db.IsDuplicateKey(err) {
		return Wrap(CodeConflict, err)
	}
	return Wrap(CodeInternal, err)
}

// CodeOf returns the code of the first *Error in err's chain, CodeInternal
// for any other error, and "" for nil.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

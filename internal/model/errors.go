package model

import "errors"

// ValidationError describes a rejected task field. Code is stable and
// machine-readable, Message is for humans.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	ErrEmptyTitle   = &ValidationError{Code: "EMPTY_TITLE", Message: "task title must not be empty"}
	ErrTitleTooLong = &ValidationError{Code: "TITLE_TOO_LONG", Message: "task title must not exceed 255 characters"}
	ErrEmptyID      = &ValidationError{Code: "EMPTY_ID", Message: "task id must not be empty"}
	ErrPastDueDate  = &ValidationError{Code: "PAST_DUE_DATE", Message: "task due date must not be in the past"}
)

// IsValidation reports whether err is one of the task validation errors.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

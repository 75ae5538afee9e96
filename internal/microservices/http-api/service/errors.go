package service

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to the request layer. Specific errors wrap one of these,
// so handlers match on the kind with errors.Is.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInvalidNesting = errors.New("only two levels of comments are allowed")
	ErrForbidden      = errors.New("you don't have permission to modify this comment")
)

var (
	ErrReportNotFound       = fmt.Errorf("report %w", ErrNotFound)
	ErrCommentNotFound      = fmt.Errorf("comment %w", ErrNotFound)
	ErrParentNotFound       = fmt.Errorf("parent comment %w", ErrNotFound)
	ErrParentReportMismatch = fmt.Errorf("%w in this report", ErrParentNotFound)
)

func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

// FieldError is invalid input attributable to one request field. Rule names
// the check that failed, in the same vocabulary as request binding.
type FieldError struct {
	Field string
	Rule  string
	msg   string
}

func (e *FieldError) Error() string {
	return ErrInvalidInput.Error() + ": " + e.msg
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}

func fieldError(field, rule, msg string) error {
	return &FieldError{Field: field, Rule: rule, msg: msg}
}

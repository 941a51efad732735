package service

import "errors"

var (
	ErrValidation      = errors.New("invalid input")
	ErrRequestInFlight = errors.New("a request is already in progress")
	ErrStaleResponse   = errors.New("response arrived after the conversation changed")
	ErrJobNotFound     = errors.New("upload job not found")
)

// ValidationError carries the message shown next to the form field.
// It matches ErrValidation with errors.Is
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(msg string) error {
	return &ValidationError{Code: "VALIDATION_ERROR", Message: msg}
}

func invalidFile(code, msg string) error {
	return &ValidationError{Code: code, Message: msg}
}

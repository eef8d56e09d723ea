// Package validation carries field-level validation failures from the domain
// up to the HTTP layer without losing which field is at fault.
package validation

import "errors"

type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func NewError(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

// AsError extracts a validation error from an error chain, if any.
func AsError(err error) (*Error, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

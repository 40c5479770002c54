package core

import "github.com/pkg/errors"

// FieldError reports a problem with one payload field, keyed by the
// field's JSON name.
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries field errors up to the API layer, which renders
// them as a field-to-message map.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown marks an integrity failure the server should not try to
// survive; the API error handler stops the process when it sees one.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}

package schedule

import (
	"errors"
	"fmt"
)

var ErrInvalidFormat = errors.New("invalid format")

// FormatError reports user input that could not be parsed. The caller is
// expected to prompt for a correction.
type FormatError struct {
	Field  string
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return ErrInvalidFormat
}

func formatErr(field, value, reason string) error {
	return &FormatError{Field: field, Value: value, Reason: reason}
}

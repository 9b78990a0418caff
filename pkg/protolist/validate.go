package protolist

import (
	"strings"
)

// Validator is a message able to check itself against its field constraints.
// Validate returns the first violation encountered, ValidateAll returns every
// violation as a MultiError.
type Validator interface {
	Validate() error
	ValidateAll() error
}

// ValidationError describes a single constraint violation on a message field.
type ValidationError struct {
	Message string
	Field   string
	Reason  string
	Cause   error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("invalid ")
	b.WriteString(e.Message)
	b.WriteString(".")
	b.WriteString(e.Field)
	b.WriteString(": ")
	b.WriteString(e.Reason)

	if e.Cause != nil {
		b.WriteString(" | caused by: ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// MultiError collects every violation found by ValidateAll.
type MultiError []error

// Error implements the error interface.
func (m MultiError) Error() string {
	msgs := make([]string, 0, len(m))
	for _, err := range m {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// AllErrors returns the violations wrapped by the MultiError.
func (m MultiError) AllErrors() []error { return m }

func (m MultiError) Unwrap() []error { return m }

// Validate checks m and reports the outcome the way generated C++ validators
// do: true on success, otherwise false with the diagnostic stored in msg.
// A nil msg discards the diagnostic.
func Validate(m Message, msg *string) bool {
	if m == nil {
		return true
	}
	err := m.Validate()
	if err == nil {
		return true
	}
	if msg != nil {
		*msg = err.Error()
	}
	return false
}

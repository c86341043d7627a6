// Package errors provides a small Kind-tagged error type for the
// library's config-load and CLI-argument failures. It carries a
// message, an optional Kind tag, and an optional wrapped cause, with no
// HTTP-status or JSON-marshaling machinery: nothing in this module
// crosses an HTTP boundary.
package errors

import (
	"errors"
	"fmt"
)

var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

// Error carries a Kind (a short, stable category string, e.g. "config",
// "cli-arg") plus a human-readable message and an optional wrapped cause.
type Error struct {
	Kind    string
	Message string

	cause error
}

var _ error = (*Error)(nil)

// New constructs an *Error with kind "Unknown".
func New(message string) *Error {
	return &Error{Kind: "Unknown", Message: message}
}

// NewWithKind constructs an *Error carrying kind with no message set.
func NewWithKind(kind string) *Error {
	return &Error{Kind: kind}
}

// Wrap constructs an *Error whose cause is err.
func Wrap(err error) *Error {
	return &Error{cause: err}
}

func (e *Error) Error() string {
	str := fmt.Sprintf("[%s] ", e.Kind)
	if e.Message != "" {
		str += e.Message
	}
	if e.cause != nil {
		str += fmt.Sprintf(" (%s)", e.cause)
	}
	return str
}

// Reason returns a copy of e with Kind set to kind.
func (e *Error) Reason(kind string) *Error {
	err := *e
	err.Kind = kind
	return &err
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Explain returns a copy of e with Message set to the formatted string.
func (e *Error) Explain(message string, args ...any) *Error {
	err := *e
	err.Message = fmt.Sprintf(message, args...)
	return &err
}

// Is implements the errors.Is interface, comparing by Kind.
func (e *Error) Is(target error) bool {
	if e == nil {
		return target == nil
	}
	if other, ok := target.(*Error); ok {
		return other.Kind == e.Kind
	}
	if e.cause != nil {
		return Is(e.cause, target)
	}
	return false
}

// Package errors defines the typed error kinds raised by the execution
// engine and the normalizer.
package errors

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies an engine error.
type Kind string

const (
	NotSupported           Kind = "NotSupported"
	NotCompatible          Kind = "NotCompatible"
	BadArgument            Kind = "BadArgument"
	Unexpected             Kind = "Unexpected"
	NumericValueOutOfRange Kind = "NumericValueOutOfRange"
	SubStringError         Kind = "SubStringError"
	BadArrayElement        Kind = "BadArrayElement"
	InvalidCardinality     Kind = "InvalidCardinality"
	NotInitialized         Kind = "NotInitialized"
	Cancelled              Kind = "Cancelled"
	ConnectionRanOut       Kind = "ConnectionRanOut"
	StoredFunctionNotFound Kind = "StoredFunctionNotFound"
)

// Error carries a kind and an optional message with wrap context.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.cause != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.cause != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.cause)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates an error of the given kind.
func New(kind Kind) *Error {
	return &Error{Kind: kind}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an underlying error.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, cause: pkgerrors.WithStack(err)}
}

// Is reports whether err (or anything it wraps) has the given kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// KindOf returns the kind of err, or Unexpected when err carries none.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return Unexpected
}

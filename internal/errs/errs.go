// Package errs defines the closed set of error kinds surfaced by the DSL
// front end, evaluator, and ephemeris adapter (spec §7), plus a lightweight
// observability context modeled on the teacher's enhanced-error pattern.
package errs

import (
	"errors"
	"fmt"
	"time"
)

// Kind is the closed set of error categories the evaluator can produce.
type Kind string

const (
	Parse             Kind = "Parse"
	UnknownName       Kind = "UnknownName"
	TypeMismatch      Kind = "TypeMismatch"
	OutOfRange        Kind = "OutOfRange"
	ReservedName      Kind = "ReservedName"
	EphemerisAlwaysUp Kind = "EphemerisAlwaysUp"
	EphemerisNeverUp  Kind = "EphemerisNeverUp"
	EphemerisOther    Kind = "EphemerisOther"
	DateParse         Kind = "DateParse"
	Interrupt         Kind = "Interrupt"
)

// Error wraps a Kind, an operation/component label for diagnostics, and the
// underlying cause (if any). It never carries a stack trace or correlation
// ID: this is a single-process, single-session CLI, not a multi-tenant
// service, so the teacher's request/session identifiers in
// observability/errors.go have no referent here.
type Error struct {
	Kind      Kind
	Component string
	Operation string
	Cause     error
	At        time.Time
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Operation, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Operation)
}

func (e *Error) Unwrap() error { return e.Cause }

// New constructs an Error with the given kind, component, and message.
func New(kind Kind, component, operation string) *Error {
	return &Error{Kind: kind, Component: component, Operation: operation, At: time.Now()}
}

// Wrap constructs an Error that carries an underlying cause.
func Wrap(kind Kind, component, operation string, cause error) *Error {
	return &Error{Kind: kind, Component: component, Operation: operation, Cause: cause, At: time.Now()}
}

// KindOf extracts the Kind of err if it is (or wraps) an *Error, returning
// ok=false for any other error, including nil.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Package nerrors implements the closed error taxonomy shared by the router
// and event bus: a small set of named kinds with status-code affinities,
// optional structured details, and adapters that fold foreign errors and
// validator issues into the taxonomy without losing their original cause.
package nerrors

import (
	"fmt"
	"runtime/debug"

	pkgerrors "github.com/pkg/errors"
)

// Kind names one of the error variants listed below. Kind is a plain string
// type, so other values can be converted into it; StatusCode maps any value
// not listed here to 500.
type Kind string

const (
	KindInvalidInput Kind = "InvalidInput"
	KindUnauthorized Kind = "Unauthorized"
	KindForbidden    Kind = "Forbidden"
	KindNotFound     Kind = "NotFound"
	KindGeneric      Kind = "Generic"
)

// StatusCode returns the HTTP status-code affinity documented for the kind.
// The core never issues an HTTP response itself; this exists so transport
// adapters built on top of it don't have to re-derive the mapping.
func (k Kind) StatusCode() int {
	switch k {
	case KindInvalidInput:
		return 400
	case KindUnauthorized:
		return 401
	case KindForbidden:
		return 403
	case KindNotFound:
		return 404
	default:
		return 500
	}
}

// Error is the single concrete error type for the taxonomy. Every error the
// router and event bus raise is a *Error; Kind discriminates the variant.
type Error struct {
	Kind       Kind
	Message    string
	Details    map[string]any
	StatusCode int
	Cause      error
	stack      string
}

// New constructs a *Error of the given kind with no details or cause.
func New(kind Kind, message string) *Error {
	return &Error{
		Kind:       kind,
		Message:    message,
		StatusCode: kind.StatusCode(),
		stack:      captureStack(),
	}
}

// Newf is New with fmt.Sprintf-style formatting of the message.
func Newf(kind Kind, format string, args ...any) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

func InvalidInput(message string) *Error { return New(KindInvalidInput, message) }
func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }
func Forbidden(message string) *Error    { return New(KindForbidden, message) }
func NotFound(message string) *Error     { return New(KindNotFound, message) }
func Generic(message string) *Error      { return New(KindGeneric, message) }

// WithDetails returns a copy of e carrying the supplied details record.
func (e *Error) WithDetails(details map[string]any) *Error {
	clone := *e
	clone.Details = details
	return &clone
}

// WithCause returns a copy of e wrapping cause, so errors.Unwrap(e) reaches
// the original error while e keeps its own Kind and message.
func (e *Error) WithCause(cause error) *Error {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is a *Error of the same Kind. It lets callers
// write errors.Is(err, nerrors.NotFound("")) to test the variant without
// caring about the message.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Kind == e.Kind
}

// Stack returns the formatted stack trace captured when the error was
// constructed, if one is available.
func (e *Error) Stack() string { return e.stack }

// FromForeignError adapts any error into the taxonomy under kind, adopting
// the foreign error's message as a fallback and preserving it as Cause so
// Unwrap/errors.As still reach it. An err that is already a *Error is
// returned as is, keeping its own Kind; a nil err yields nil.
func FromForeignError(kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	if existing, ok := err.(*Error); ok {
		return existing
	}
	wrapped := pkgerrors.WithStack(err)
	return &Error{
		Kind:       kind,
		Message:    err.Error(),
		StatusCode: kind.StatusCode(),
		Cause:      err,
		stack:      fmt.Sprintf("%+v", wrapped),
	}
}

// Issue mirrors the structured shape a schema validator reports for a single
// validation failure. It is duplicated from validate.Issue (rather than
// importing that package) to keep the error taxonomy free of a dependency on
// the validation capability it adapts.
type Issue struct {
	Path     []string `json:"path"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Expected string   `json:"expected,omitempty"`
	Received string   `json:"received,omitempty"`
}

// FromSchemaIssues adapts a validator's issue list into an InvalidInput
// error whose Details carry the issues verbatim under the "issues" key, as
// required by the routing algorithm's validation-failure step.
func FromSchemaIssues(message string, issues []Issue) *Error {
	return InvalidInput(message).WithDetails(map[string]any{"issues": issues})
}

func captureStack() string {
	return string(debug.Stack())
}

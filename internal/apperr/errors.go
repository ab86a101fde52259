package apperr

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Kind classifies an error for the client-facing response.
type Kind int

const (
	Internal Kind = iota
	Unauthenticated
	Blocked
	Forbidden
	NotFound
	Conflict
	Validation
)

func (k Kind) String() string {
	switch k {
	case Unauthenticated:
		return "not authenticated"
	case Blocked:
		return "account blocked"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not found"
	case Conflict:
		return "conflict"
	case Validation:
		return "validation"
	default:
		return "internal"
	}
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case Unauthenticated:
		return http.StatusUnauthorized
	case Blocked, Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Validation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified error whose message is safe to show to the caller.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// PublicMessage is the message safe to send to a client. Internal errors
// carrying a cause are rendered generically.
func (e *Error) PublicMessage() string {
	if e.Kind == Internal && e.cause != nil {
		return "Internal server error"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind Kind, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

func NewUnauthenticated(format string, a ...interface{}) *Error {
	return newError(Unauthenticated, format, a...)
}

func NewBlocked(format string, a ...interface{}) *Error {
	return newError(Blocked, format, a...)
}

func NewForbidden(format string, a ...interface{}) *Error {
	return newError(Forbidden, format, a...)
}

func NewNotFound(format string, a ...interface{}) *Error {
	return newError(NotFound, format, a...)
}

func NewConflict(format string, a ...interface{}) *Error {
	return newError(Conflict, format, a...)
}

func NewValidation(format string, a ...interface{}) *Error {
	return newError(Validation, format, a...)
}

// NewFieldValidation returns a validation error carrying field-level detail.
func NewFieldValidation(message string, fields ...FieldError) *Error {
	return &Error{Kind: Validation, Message: message, Fields: fields}
}

// NewInternal is a server failure whose message may be shown to the caller.
func NewInternal(format string, a ...interface{}) *Error {
	return newError(Internal, format, a...)
}

// Wrap attaches a cause to an internal error. The cause is logged, never rendered.
func Wrap(err error, message string) *Error {
	return &Error{Kind: Internal, Message: message, cause: err}
}

// KindOf returns the kind of err, or Internal when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

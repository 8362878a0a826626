package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for callers that need to decide whether to
// re-prompt, retry, or escalate.
type Kind string

const (
	KindUnknown      Kind = ""
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindPersistence  Kind = "persistence"
	KindUnauthorized Kind = "unauthorized"
)

// Error is a classified error with a stable machine-readable code.
type Error struct {
	Kind    Kind   `json:"kind"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches two *Error values by kind and code so a wrapped copy still
// satisfies errors.Is against the package sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// ErrorKind reports the classification.
func (e *Error) ErrorKind() Kind { return e.Kind }

func (e *Error) ErrorCode() string { return e.Code }

// PublicMessage is Message without the wrapped cause.
func (e *Error) PublicMessage() string { return e.Message }

func Validation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

func Unauthorized(code, message string) *Error {
	return &Error{Kind: KindUnauthorized, Code: code, Message: message}
}

// Persistence wraps a store failure.
func Persistence(code, message string, err error) *Error {
	return &Error{Kind: KindPersistence, Code: code, Message: message, Err: err}
}

// With returns a copy of e carrying cause.
func (e *Error) With(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

type kinded interface{ ErrorKind() Kind }

// KindOf walks the chain and returns the first classification found.
func KindOf(err error) Kind {
	var k kinded
	if errors.As(err, &k) {
		return k.ErrorKind()
	}
	return KindUnknown
}

type coded interface{ ErrorCode() string }

// CodeOf returns the code of the first coded error in the chain.
func CodeOf(err error) string {
	var c coded
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return ""
}

type publicMessager interface{ PublicMessage() string }

// PublicMessage returns the text a client may see for err. Validation,
// not-found and unauthorized errors are shown in full; store and
// unclassified failures never expose their cause.
func PublicMessage(err error) string {
	switch KindOf(err) {
	case KindValidation, KindNotFound, KindUnauthorized:
		return err.Error()
	}
	var p publicMessager
	if errors.As(err, &p) {
		return p.PublicMessage()
	}
	return "internal error"
}

// HTTPStatus maps a classified error to a response status.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindPersistence:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

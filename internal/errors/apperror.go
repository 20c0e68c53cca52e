package errors

import (
	stderrors "errors"
	"net/http"
)

// Kind classifies an AppError and decides its HTTP status
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindForbidden
	KindUnauthorized
)

// AppError is the error type returned by the service layer
type AppError struct {
	Kind    Kind
	Code    string // codes.go 참조
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// Is matches another AppError of the same kind. A target without a code matches the whole kind.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if t.Code == "" {
		return t.Kind == e.Kind
	}
	return t.Kind == e.Kind && t.Code == e.Code
}

// Status maps the kind to an HTTP status code
func (e *AppError) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// kind sentinels for errors.Is
var (
	ErrValidation   = &AppError{Kind: KindValidation}
	ErrNotFound     = &AppError{Kind: KindNotFound}
	ErrConflict     = &AppError{Kind: KindConflict}
	ErrForbidden    = &AppError{Kind: KindForbidden}
	ErrUnauthorized = &AppError{Kind: KindUnauthorized}
)

func New(kind Kind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

func NewValidation(code, message string) *AppError {
	return New(KindValidation, code, message)
}

func NewNotFound(code, message string) *AppError {
	return New(KindNotFound, code, message)
}

func NewConflict(code, message string) *AppError {
	return New(KindConflict, code, message)
}

func NewForbidden(code, message string) *AppError {
	return New(KindForbidden, code, message)
}

func NewUnauthorized(code, message string) *AppError {
	return New(KindUnauthorized, code, message)
}

// AsAppError unwraps err into an *AppError if one is in the chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

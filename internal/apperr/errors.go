package apperr

import "errors"

// Sentinel kinds. Services wrap a message around one of these; the HTTP
// layer matches with errors.Is to pick a status code.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("resource not found")
)

type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Is(target error) bool { return target == e.kind }

func Unauthorized(msg string) error { return &Error{kind: ErrUnauthorized, msg: msg} }

func Validation(msg string) error { return &Error{kind: ErrValidation, msg: msg} }

func NotFound(msg string) error { return &Error{kind: ErrNotFound, msg: msg} }

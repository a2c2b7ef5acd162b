// Package errors re-exports github.com/cockroachdb/errors and defines the
// job-core error taxonomy.
//
// Every error returned by a service is, or is marked with, one of the
// sentinels below. The HTTP layer maps them with errors.Is:
//
//	ErrValidation   -> 400
//	ErrUnauthorized -> 401
//	ErrForbidden    -> 403
//	ErrNotFound     -> 404
//	ErrConflict     -> 409
//	ErrStore        -> 500
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	WithHint     = crdb.WithHint
	WithDetail   = crdb.WithDetail
	Mark         = crdb.Mark
)

var (
	Is          = crdb.Is
	IsAny       = crdb.IsAny
	As          = crdb.As
	Unwrap      = crdb.Unwrap
	UnwrapAll   = crdb.UnwrapAll
	GetAllHints = crdb.GetAllHints
)

var (
	ErrValidation   = New("validation error")
	ErrNotFound     = New("not found")
	ErrUnauthorized = New("unauthorized")
	ErrForbidden    = New("forbidden")
	ErrConflict     = New("conflict")
	ErrStore        = New("store error")
)

// Validation returns a user-facing validation error.
func Validation(msg string) error {
	return Mark(New(msg), ErrValidation)
}

// NotFound returns a user-facing not-found error.
func NotFound(msg string) error {
	return Mark(New(msg), ErrNotFound)
}

// Forbidden returns a user-facing authorization error.
func Forbidden(msg string) error {
	return Mark(New(msg), ErrForbidden)
}

// Unauthorized returns a user-facing authentication error.
func Unauthorized(msg string) error {
	return Mark(New(msg), ErrUnauthorized)
}

// Conflictf returns an error for a rejected state transition.
func Conflictf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrConflict)
}

// Store wraps a persistence failure. The message is kept for logs;
// handlers only surface a generic description.
func Store(err error, msg string) error {
	if err == nil {
		return nil
	}
	return Mark(Wrap(err, msg), ErrStore)
}

func IsValidation(err error) bool   { return err != nil && Is(err, ErrValidation) }
func IsNotFound(err error) bool     { return err != nil && Is(err, ErrNotFound) }
func IsForbidden(err error) bool    { return err != nil && Is(err, ErrForbidden) }
func IsUnauthorized(err error) bool { return err != nil && Is(err, ErrUnauthorized) }
func IsConflict(err error) bool     { return err != nil && Is(err, ErrConflict) }
func IsStore(err error) bool        { return err != nil && Is(err, ErrStore) }

// Package services holds the social interaction rules (follow, like, comment
// ownership) and the read-side queries on top of the store.
package services

import (
	"errors"
	"strconv"
	"unicode/utf8"
)

// Error kinds. Every *Error unwraps to exactly one of these.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalid          = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
)

// Error is a semantic failure the caller has to correct. None are retried.
type Error struct {
	Kind   error
	Detail string
}

func (e *Error) Error() string { return e.Detail }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Detail returns the human-readable message of a service error, or fallback
// for any other error.
func Detail(err error, fallback string) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Detail
	}
	return fallback
}

func checkText(field, value string, max int, required bool) error {
	if required && value == "" {
		return newError(ErrInvalid, field+": This field may not be blank.")
	}
	if utf8.RuneCountInString(value) > max {
		return newError(ErrInvalid, field+": Ensure this field has no more than "+strconv.Itoa(max)+" characters.")
	}
	return nil
}

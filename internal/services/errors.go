// Package services holds the business rules between handlers and repositories.
package services

import (
	"errors"

	"github.com/anonto42/aura/backend/internal/repositories"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError is a rejected request with a message meant for the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// kindError carries a client-facing message for one of the sentinels.
type kindError struct {
	kind    error
	message string
}

func (e *kindError) Error() string { return e.message }
func (e *kindError) Unwrap() error { return e.kind }

func notFound(msg string) error {
	return &kindError{kind: ErrNotFound, message: msg}
}

func forbidden(msg string) error {
	return &kindError{kind: ErrForbidden, message: msg}
}

func unauthorized(msg string) error {
	return &kindError{kind: ErrUnauthorized, message: msg}
}

// Message returns the client-facing part of a service error, or "" when
// err carries none.
func Message(err error) string {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Message
	}
	var k *kindError
	if errors.As(err, &k) {
		return k.message
	}
	return ""
}

// lookup maps a repository not-found error to ErrNotFound with msg.
func lookup(err error, msg string) error {
	if repositories.IsNotFound(err) {
		return notFound(msg)
	}
	return err
}

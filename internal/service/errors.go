// Package service provides business-logic services for the portfolio API,
// delegating persistence to repository interfaces.
package service

import "errors"

var (
	// ErrMissingCredential is returned when a mutating request carries an
	// empty or whitespace-only admin password.
	ErrMissingCredential = errors.New("admin password is required")

	// ErrWrongCredential is returned when the supplied admin password does
	// not match the canonical one.
	ErrWrongCredential = errors.New("admin password does not match")

	// ErrNotFound is returned when the referenced app does not exist.
	ErrNotFound = errors.New("app not found")

	// ErrValidation is returned when a payload fails validation.
	ErrValidation = errors.New("validation failed")

	// ErrStoreUnavailable is returned when the backing store fails on a
	// write. Read failures of the credential store are absorbed by the
	// compiled-in default instead.
	ErrStoreUnavailable = errors.New("backing store unavailable")
)

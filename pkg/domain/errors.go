package domain

import "errors"

// Errors shared across aggregates. Infrastructure maps storage errors onto
// these so callers never see driver types.
var (
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists is returned when a unique key is already taken
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrValidation is returned when input validation fails
	ErrValidation = errors.New("validation error")
	// ErrUnauthorized is returned when the caller could not be authenticated
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when the caller lacks a required capability
	ErrForbidden = errors.New("forbidden")
)

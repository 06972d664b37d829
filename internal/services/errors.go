// Package services defines the application logic on top of the local store:
// logging workouts and related records, computing statistics and account
// lifecycle. This file centralizes the service-level error values so that
// they can be consistently returned by service methods and checked by
// callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

var (
	// ErrNotFound indicates that the record does not exist or is not owned by
	// the current user.
	ErrNotFound = errors.New("record not found")

	// ErrForbidden is returned when a write targets an id owned by another user.
	ErrForbidden = errors.New("record belongs to another user")

	// ErrInvalidInput is returned for records that fail validation before
	// reaching the store (missing id, empty name, negative values).
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoUser is returned when an operation requires a signed-in user.
	ErrNoUser = errors.New("user id is required")
)

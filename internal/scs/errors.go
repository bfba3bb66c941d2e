package scs

import "errors"

var (
	// ErrValidation marks a rejected argument: a non-array import payload,
	// blank message text, a missing required field.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an operation that references a missing record.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized marks a privileged command run outside an admin session.
	ErrUnauthorized = errors.New("admin only")
)

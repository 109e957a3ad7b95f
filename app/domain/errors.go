package domain

import "errors"

// Contact and pagination errors
var (
	// Contact errors
	ErrContactNotFound = errors.New("contact not found")
	ErrContactConflict = errors.New("phone number or email already exists")

	// Cursor errors
	ErrInvalidCursor      = errors.New("invalid cursor")
	ErrConflictingCursors = errors.New("both cursors cannot be provided simultaneously")

	// Validation errors
	ErrInvalidInput     = errors.New("invalid input")
	ErrValidationFailed = errors.New("validation failed")

	// Store errors
	ErrStoreUnavailable = errors.New("contact store unavailable")
)

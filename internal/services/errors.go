package services

import "errors"

var (
	// ErrValidation covers malformed or incomplete input.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidState means the operation is not allowed in the record's
	// current lifecycle state, e.g. editing a sent communication.
	ErrInvalidState = errors.New("operation not allowed in current state")

	// ErrScheduleNotFuture rejects scheduling at or before the current
	// moment.
	ErrScheduleNotFuture = errors.New("scheduled datetime must be in the future")
)

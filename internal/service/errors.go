package service

import "errors"

var (
	// ErrNotFound marks a referenced campaign, event, article, or ad that
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks malformed input: bad dates, missing required
	// fields, illegal status transitions.
	ErrValidation = errors.New("validation failed")

	// ErrAlreadyRan marks a guarded task that already claimed today.
	ErrAlreadyRan = errors.New("task already ran today")
)

package model

import "errors"

// Error taxonomy for the resolver. Infrastructure errors are wrapped with
// helper.NewError; callers match these sentinels with errors.Is.
var (
	// ErrValidation is returned when a mention is empty or invalid before any I/O.
	ErrValidation = errors.New("validation failed")
	// ErrBackendUnavailable marks a failed or timed out search backend call.
	ErrBackendUnavailable = errors.New("search backend unavailable")
	// ErrPersistence marks a failed write after a valid resolution decision.
	ErrPersistence = errors.New("persistence failed")
)

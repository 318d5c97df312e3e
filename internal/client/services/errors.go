package services

import "errors"

var (
	// ErrStaleResponse is returned when the session changed while a request
	// was in flight; the response belongs to a session that no longer exists.
	ErrStaleResponse = errors.New("session changed during request")

	ErrNotAvailable   = errors.New("pet is not available for adoption")
	ErrAlreadyApplied = errors.New("you have already applied for this pet")
	ErrAdminApply     = errors.New("administrators cannot apply for adoption")

	// ErrNotPersisted means login succeeded but the session will not
	// survive a restart.
	ErrNotPersisted = errors.New("session not persisted")
)

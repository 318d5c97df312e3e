// Package common defines shared constants and sentinel errors used across
// the client layers of petadopt. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Durable storage failures (quota, disabled, closed database).
	ErrStorage = errors.New("storage error")

	// Token decoding errors.
	ErrDecode = errors.New("malformed token")

	// Session lifecycle errors.
	ErrSessionExpired     = errors.New("session expired")
	ErrAlreadyInitialized = errors.New("session already initialized")

	// Input validation errors raised before any request is sent.
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrValidation       = errors.New("validation error")
)

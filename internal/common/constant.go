// Package common contains shared constants and sentinel errors used across
// petadopt components.
package common

// TokenHeaderName is the HTTP header that carries the bearer token on
// authenticated requests. The API does not use the Authorization scheme.
const TokenHeaderName = "token"

// RequestIDHeaderName tags every outbound request for log correlation.
const RequestIDHeaderName = "X-Request-ID"

// Durable storage keys.
const (
	StorageKeyToken = "token"
	StorageKeyUser  = "user"
)

// User-visible notification texts.
const (
	MsgFallback       = "Something went wrong. Please try again."
	MsgSessionExpired = "Session expired. Please login again."
	MsgForbidden      = "You are not authorized to perform this action."
	MsgServerError    = "Server error. Please try later."
	MsgForbiddenPage  = "403: Sorry, you are not authorized to access this page."
)

// Package common defines shared constants and sentinel errors used across
// client and server layers of Matchbox. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Ledger error kinds. The presentation layer branches on these.
	ErrorForbidden    = errors.New("not permitted")
	ErrorInvalidState = errors.New("invalid state")
	ErrorValidation   = errors.New("validation error")

	// Capture errors. Never returned by the ledger.
	ErrorDeviceUnavailable = errors.New("device unavailable")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

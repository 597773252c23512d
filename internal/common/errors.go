// Package common defines shared constants and sentinel errors used across
// the layers of the vehicle tracker. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// ErrorStoreBusy marks a transient locking conflict on the embedded
	// store. The write queue retries it; it never reaches a caller.
	ErrorStoreBusy = errors.New("store busy")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrorPermissionDenied means the record exists but belongs to a
	// different owner. Distinct from ErrorNotFound so handlers can answer
	// 403 vs 404.
	ErrorPermissionDenied = errors.New("permission denied")

	// Validation / input errors.
	ErrorValidation    = errors.New("validation error")
	ErrorAlreadyExists = errors.New("already exists")

	// ErrorInsufficientData is reported by the consumption calculator when
	// fewer than two entries, or a non-positive distance, make the ratio
	// meaningless.
	ErrorInsufficientData = errors.New("insufficient data")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)

// Package common defines shared constants and sentinel errors used across
// client and server layers of Locksmith. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorUnavailable  = errors.New("service unavailable")

	// Quota errors. ErrorQuotaExceeded means the plan's secret cap is
	// reached; ErrorQuotaExhausted means a live counter hit zero.
	ErrorQuotaExceeded  = errors.New("secret quota reached")
	ErrorQuotaExhausted = errors.New("request quota exhausted")

	// Crypto errors. A failed integrity check on a stored blob is
	// non-recoverable for that record.
	ErrDecryptionFailed = errors.New("decryption failed")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)

package services

import "errors"

var (
	// ErrUnauthenticated means no verified identity reached the service. Not retryable.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrStoreUnavailable covers connectivity failures; safe to retry with backoff.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrTransactionFailure means the check-in transaction rolled back in full.
	// Retrying is safe: the insert is idempotent per day.
	ErrTransactionFailure = errors.New("checkin transaction failed")
	ErrProfileLookup      = errors.New("profile lookup failed")
)

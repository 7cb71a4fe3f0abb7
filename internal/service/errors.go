package service

import "errors"

// Service error taxonomy. Handlers map these onto HTTP statuses; anything
// else is treated as an internal error.
var (
	// ErrUnauthorized covers bad credentials, bad or expired tokens, and
	// store access denials. The caller never learns which check failed.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict is returned when a tenant or user already exists for a
	// given email at registration.
	ErrConflict = errors.New("already exists")

	// ErrNotFound is returned for records missing within the caller's tenant.
	ErrNotFound = errors.New("not found")

	// ErrNotConfigured is returned by payment adapters whose provider
	// credentials were absent at startup.
	ErrNotConfigured = errors.New("provider not configured")

	// ErrInsufficientStock rejects sale lines exceeding available stock.
	ErrInsufficientStock = errors.New("insufficient stock")
)

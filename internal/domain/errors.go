package domain

import "errors"

// Sentinel errors shared across services. Wrap with fmt.Errorf("...: %w", err)
// and test with errors.Is; the HTTP layer maps them to status codes.
var (
	// ErrInvalidInput marks malformed input, rejected before any side effect.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized marks an issuer lacking the required role, rejected
	// before any side effect.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound marks an absent region or entity.
	ErrNotFound = errors.New("not found")
)

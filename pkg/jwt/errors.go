package jwt

import "errors"

var (
	// ErrInvalidToken covers every verification failure: malformed structure,
	// bad signature, unexpected algorithm, or expired claims. The reasons are
	// deliberately not distinguished to callers.
	ErrInvalidToken = errors.New("jwt: invalid token")

	ErrMissingSigningKey = errors.New("jwt: missing signing key")
	ErrMissingClaims     = errors.New("jwt: missing claims")
)
